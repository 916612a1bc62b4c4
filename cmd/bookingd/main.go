package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	availabilityapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/availability"
	bookingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/booking"
	listingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/listing"
	"github.com/quantum-brackets/45group-sub001/internal/app/middleware"
	appoutbox "github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
	"github.com/quantum-brackets/45group-sub001/internal/infra/broker/kafka"
	"github.com/quantum-brackets/45group-sub001/internal/infra/config"
	inframongo "github.com/quantum-brackets/45group-sub001/internal/infra/db/mongo"
	ginserver "github.com/quantum-brackets/45group-sub001/internal/infra/http/gin"
	"github.com/quantum-brackets/45group-sub001/internal/infra/obs"
	infraoutbox "github.com/quantum-brackets/45group-sub001/internal/infra/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if cfg.SeedDemoData && cfg.StorageMode == "memory" {
		if err := app.seedDemoData(ctx, logger); err != nil {
			logger.Warn("demo data seed failed", "error", err)
		}
	}

	if app.relay != nil {
		go func() {
			if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox relay stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.producer != nil {
			_ = app.producer.Close()
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	relay    *infraoutbox.Worker
	producer *kafka.Producer
	ready    func() error

	uowFactory uow.UoWFactory
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	var app application

	store := infraoutbox.Store(infraoutbox.NewMemoryStore())
	var uowFactory uow.UoWFactory
	var idStore middleware.IdempotencyStore
	var box appoutbox.Outbox
	app.ready = func() error { return nil }

	switch cfg.StorageMode {
	case "mongo":
		client, err := inframongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		store = infraoutbox.NewMongoStore(client.DB)
		uowFactory = inframongo.Factory{
			DB:           client.DB,
			ListingsRepo: inframongo.NewListingRepository(client.DB),
			BookingsRepo: inframongo.NewBookingRepository(client.DB),
			UsersRepo:    inframongo.NewUserRepository(client.DB),
		}
		idStore = inframongo.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		box = memory.NewOutbox(store)
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		uowFactory = &memory.Factory{
			ListingsRepo: memory.NewListingRepository(),
			BookingsRepo: memory.NewBookingRepository(),
			UsersRepo:    memory.NewUserRepository(),
		}
		idStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		box = memory.NewOutbox(store)
	}
	app.uowFactory = uowFactory

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		app.producer = producer
		app.relay = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	} else {
		logger.Info("no kafka brokers configured, outbox relay disabled")
	}

	calculator := pricing.Calculator{EventDailyHours: cfg.EventDailyHours}
	authorizer := policies.NewRoleAuthorizer()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory, Pricing: calculator, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: uowFactory, Pricing: calculator, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CompleteBookingCommand{}.Key(), &bookingapp.CompleteBookingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RescheduleBookingCommand{}.Key(), &bookingapp.RescheduleBookingHandler{
		UoWFactory: uowFactory, Pricing: calculator, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.AddBillCommand{}.Key(), &bookingapp.AddBillHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.RecordPaymentCommand{}.Key(), &bookingapp.RecordPaymentHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.SetDiscountCommand{}.Key(), &bookingapp.SetDiscountHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder, MaxPercent: cfg.MaxDiscountPercent,
	})
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), &listingapp.UpdateListingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.ResizeInventoryCommand{}.Key(), &listingapp.ResizeInventoryHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.ActivateListingCommand{}.Key(), &listingapp.ActivateListingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.SuspendListingCommand{}.Key(), &listingapp.SuspendListingHandler{
		UoWFactory: uowFactory, Authz: authorizer, Outbox: box, Encoder: encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.QuoteBookingQuery{}.Key(), &bookingapp.QuoteBookingHandler{
		UoWFactory: uowFactory, Pricing: calculator,
	})
	queries.RegisterHandler(queryBus, bookingapp.BookingStatementQuery{}.Key(), &bookingapp.BookingStatementHandler{
		UoWFactory: uowFactory, Authz: authorizer,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{
		UoWFactory: uowFactory, Authz: authorizer,
	})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, listingapp.ListListingsQuery{}.Key(), &listingapp.ListListingsHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Booking:        ginserver.BookingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		Availability:   ginserver.AvailabilityHandler{Queries: queryBusWithMiddleware},
		Listing:        ginserver.ListingHandler{Commands: commandBusWithMiddleware, Queries: queryBusWithMiddleware},
		AuthMiddleware: ginserver.AuthMiddleware{}.Handle,
	}
	return app, nil
}

// seedDemoData loads a small catalog and a staff account so a fresh memory
// deployment is immediately usable.
func (a application) seedDemoData(ctx context.Context, logger *slog.Logger) error {
	unit, err := a.uowFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return err
	}
	defer unit.Rollback(ctx)

	now := time.Now()
	staff, err := domainuser.NewUser(domainuser.CreateParams{
		ID:        "usr-frontdesk",
		Name:      "Front Desk",
		Email:     "frontdesk@example.test",
		Roles:     []domainuser.Role{domainuser.RoleStaff},
		CreatedAt: now,
	})
	if err != nil {
		return err
	}
	if err := unit.Users().Save(ctx, staff); err != nil {
		return err
	}

	seeds := []domainlisting.CreateParams{
		{
			ID:        "lst-harbor-hotel",
			Name:      "Harborview Hotel",
			Location:  "Lagos",
			Type:      domainlisting.TypeHotel,
			Rate:      money.Must(12000, "USD"),
			RateUnit:  domainlisting.PerNight,
			MaxGuests: 2,
			Units: []domainlisting.UnitSeed{
				{ID: "room-101", Name: "Room 101"},
				{ID: "room-102", Name: "Room 102"},
				{ID: "room-201", Name: "Room 201"},
			},
			Now: now,
		},
		{
			ID:        "lst-garden-hall",
			Name:      "Garden Event Hall",
			Location:  "Lagos",
			Type:      domainlisting.TypeEvents,
			Rate:      money.Must(5000, "USD"),
			RateUnit:  domainlisting.PerHour,
			MaxGuests: 200,
			Units: []domainlisting.UnitSeed{
				{ID: "hall-main", Name: "Main Hall"},
			},
			Now: now,
		},
		{
			ID:        "lst-corner-bistro",
			Name:      "Corner Bistro",
			Location:  "Lagos",
			Type:      domainlisting.TypeRestaurant,
			Rate:      money.Must(2500, "USD"),
			RateUnit:  domainlisting.PerPerson,
			MaxGuests: 6,
			Units: []domainlisting.UnitSeed{
				{ID: "table-1", Name: "Table 1"},
				{ID: "table-2", Name: "Table 2"},
				{ID: "table-3", Name: "Table 3"},
				{ID: "table-4", Name: "Table 4"},
			},
			Now: now,
		},
	}
	for _, params := range seeds {
		l, err := domainlisting.NewListing(params)
		if err != nil {
			logger.Error("demo listing invalid", "listing_id", params.ID, "error", err)
			continue
		}
		if err := l.Activate(now); err != nil {
			logger.Error("demo listing activation failed", "listing_id", params.ID, "error", err)
			continue
		}
		l.ClearEvents()
		if err := unit.Listings().Save(ctx, l); err != nil {
			logger.Error("cannot store demo listing", "listing_id", params.ID, "error", err)
			continue
		}
		logger.Info("demo listing seeded", "listing_id", l.ID)
	}
	return unit.Commit(ctx)
}
