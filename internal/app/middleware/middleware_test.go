package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
)

type fakeStore struct {
	records map[string]IdempotencyRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]IdempotencyRecord)}
}

func (s *fakeStore) Get(ctx context.Context, key string) (IdempotencyRecord, bool, error) {
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *fakeStore) Save(ctx context.Context, rec IdempotencyRecord) error {
	s.records[rec.Key] = rec
	return nil
}

type echoCommand struct {
	Value string
	IdKey string
}

func (c echoCommand) Key() string { return "test.echo" }

func (c echoCommand) IdempotencyKey() string { return c.IdKey }

func (c echoCommand) ResultPrototype() any { return &echoResult{} }

func (c echoCommand) Validate() error {
	if c.Value == "" {
		return errors.New("value required")
	}
	return nil
}

type echoResult struct {
	Value string `json:"value"`
	Calls int    `json:"calls"`
}

func registerEcho(bus *commands.InMemoryBus, calls *int) {
	commands.RegisterHandler(bus, "test.echo", commands.HandlerFunc[echoCommand, *echoResult](
		func(ctx context.Context, cmd echoCommand) (*echoResult, error) {
			*calls++
			return &echoResult{Value: cmd.Value, Calls: *calls}, nil
		}))
}

func TestValidationRejectsBadCommands(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	registerEcho(bus, &calls)
	chained := ChainCommands(bus, Validation())

	_, err := chained.Dispatch(context.Background(), echoCommand{})
	require.EqualError(t, err, "value required")
	require.Zero(t, calls)

	res, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), chained, echoCommand{Value: "ok"})
	require.NoError(t, err)
	require.Equal(t, "ok", res.Value)
	require.Equal(t, 1, calls)
}

func TestIdempotencyReplaysResult(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	registerEcho(bus, &calls)
	chained := ChainCommands(bus, Idempotency(newFakeStore(), nil))

	first, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), chained, echoCommand{Value: "a", IdKey: "key-1"})
	require.NoError(t, err)
	require.Equal(t, 1, first.Calls)

	// same key replays the stored result without re-invoking the handler
	replay, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), chained, echoCommand{Value: "different", IdKey: "key-1"})
	require.NoError(t, err)
	require.Equal(t, 1, replay.Calls)
	require.Equal(t, "a", replay.Value)
	require.Equal(t, 1, calls)

	// a new key executes fresh
	fresh, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), chained, echoCommand{Value: "b", IdKey: "key-2"})
	require.NoError(t, err)
	require.Equal(t, 2, fresh.Calls)
}

func TestIdempotencyReplaysError(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	commands.RegisterHandler(bus, "test.echo", commands.HandlerFunc[echoCommand, *echoResult](
		func(ctx context.Context, cmd echoCommand) (*echoResult, error) {
			calls++
			return nil, errors.New("boom")
		}))
	chained := ChainCommands(bus, Idempotency(newFakeStore(), nil))

	_, err := chained.Dispatch(context.Background(), echoCommand{Value: "a", IdKey: "key-1"})
	require.EqualError(t, err, "boom")
	_, err = chained.Dispatch(context.Background(), echoCommand{Value: "a", IdKey: "key-1"})
	require.EqualError(t, err, "boom")
	require.Equal(t, 1, calls)
}

func TestIdempotencySkipsBlankKey(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	registerEcho(bus, &calls)
	chained := ChainCommands(bus, Idempotency(newFakeStore(), nil))

	for i := 0; i < 3; i++ {
		_, err := chained.Dispatch(context.Background(), echoCommand{Value: "a"})
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)
}

func TestChainOrder(t *testing.T) {
	bus := commands.NewInMemoryBus()
	calls := 0
	registerEcho(bus, &calls)

	var order []string
	tag := func(name string) CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			nextFn := wrapCommand(next)
			return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				order = append(order, name)
				return nextFn(ctx, cmd)
			})
		}
	}

	chained := ChainCommands(bus, tag("outer"), tag("inner"))
	_, err := chained.Dispatch(context.Background(), echoCommand{Value: "a"})
	require.NoError(t, err)
	require.Equal(t, []string{"outer", "inner"}, order)
}

type sessionCtxKey struct{}

type txUnit struct {
	committed  bool
	rolledBack bool
}

func (u *txUnit) Listings() domainlisting.Repository { return nil }
func (u *txUnit) Bookings() domainbooking.Repository { return nil }
func (u *txUnit) Users() domainuser.Repository       { return nil }
func (u *txUnit) Commit(ctx context.Context) error   { u.committed = true; return nil }
func (u *txUnit) Rollback(ctx context.Context) error { u.rolledBack = true; return nil }

func (u *txUnit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, u)
}

type txFactory struct {
	unit *txUnit
}

func (f txFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return f.unit, nil
}

func TestTransactionRunsHandlerUnderSessionContext(t *testing.T) {
	bus := commands.NewInMemoryBus()
	unit := &txUnit{}
	var sawSession, sawUnit bool
	commands.RegisterHandler(bus, "test.echo", commands.HandlerFunc[echoCommand, *echoResult](
		func(ctx context.Context, cmd echoCommand) (*echoResult, error) {
			sawSession = ctx.Value(sessionCtxKey{}) == unit
			_, sawUnit = uow.FromContext(ctx)
			return &echoResult{Value: cmd.Value}, nil
		}))
	chained := ChainCommands(bus, Transaction(txFactory{unit: unit}, nil))

	_, err := chained.Dispatch(context.Background(), echoCommand{Value: "a"})
	require.NoError(t, err)
	require.True(t, sawSession, "handler must run under the injected session context")
	require.True(t, sawUnit)
	require.True(t, unit.committed)
	require.False(t, unit.rolledBack)
}

func TestTransactionRollsBackOnHandlerError(t *testing.T) {
	bus := commands.NewInMemoryBus()
	unit := &txUnit{}
	commands.RegisterHandler(bus, "test.echo", commands.HandlerFunc[echoCommand, *echoResult](
		func(ctx context.Context, cmd echoCommand) (*echoResult, error) {
			return nil, errors.New("boom")
		}))
	chained := ChainCommands(bus, Transaction(txFactory{unit: unit}, nil))

	_, err := chained.Dispatch(context.Background(), echoCommand{Value: "a"})
	require.EqualError(t, err, "boom")
	require.False(t, unit.committed)
	require.True(t, unit.rolledBack)
}

func TestDispatchUnknownCommand(t *testing.T) {
	bus := commands.NewInMemoryBus()
	_, err := bus.Dispatch(context.Background(), echoCommand{Value: "a"})
	require.ErrorIs(t, err, commands.ErrHandlerNotFound)
}
