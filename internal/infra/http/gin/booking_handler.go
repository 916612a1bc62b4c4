package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	bookingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/booking"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	ListingID string    `json:"listing_id"`
	GuestID   string    `json:"guest_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Guests    int       `json:"guests"`
	UnitCount int       `json:"unit_count"`
}

func (h BookingHandler) Create(c *gin.Context) {
	h.create(c, false)
}

// CreateWalkIn records a staff-side booking that starts CONFIRMED.
func (h BookingHandler) CreateWalkIn(c *gin.Context) {
	h.create(c, true)
}

func (h BookingHandler) create(c *gin.Context, walkIn bool) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	guestID := req.GuestID
	if guestID == "" {
		guestID = actor.ID
	}
	unitCount := req.UnitCount
	if unitCount < 1 {
		unitCount = 1
	}
	cmd := bookingapp.RequestBookingCommand{
		CommandID:       uuid.NewString(),
		ListingID:       req.ListingID,
		GuestID:         guestID,
		Start:           req.Start,
		End:             req.End,
		Guests:          req.Guests,
		UnitCount:       unitCount,
		WalkIn:          walkIn,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	q := bookingapp.BookingStatementQuery{BookingID: c.Param("id")}
	detail, err := queries.Ask[bookingapp.BookingStatementQuery, dto.BookingDetail](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	cmd := bookingapp.ConfirmBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, *bookingapp.ConfirmBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Complete(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	cmd := bookingapp.CompleteBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CompleteBookingCommand, *bookingapp.CompleteBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Cancel(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := bookingapp.CancelBookingCommand{BookingID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *bookingapp.CancelBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rescheduleBookingRequest struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	UnitCount int       `json:"unit_count"`
}

func (h BookingHandler) Reschedule(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req rescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RescheduleBookingCommand{
		BookingID: c.Param("id"),
		Start:     req.Start,
		End:       req.End,
		UnitCount: req.UnitCount,
	}
	result, err := commands.Dispatch[bookingapp.RescheduleBookingCommand, *bookingapp.RescheduleBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type addBillRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
}

func (h BookingHandler) AddBill(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req addBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.AddBillCommand{
		BookingID:   c.Param("id"),
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
	}
	result, err := commands.Dispatch[bookingapp.AddBillCommand, *bookingapp.AddBillResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type recordPaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Method   string `json:"method"`
	Note     string `json:"note"`
}

func (h BookingHandler) RecordPayment(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.RecordPaymentCommand{
		BookingID: c.Param("id"),
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Note:      req.Note,
	}
	result, err := commands.Dispatch[bookingapp.RecordPaymentCommand, *bookingapp.RecordPaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setDiscountRequest struct {
	Percent int64 `json:"percent"`
}

func (h BookingHandler) SetDiscount(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req setDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := bookingapp.SetDiscountCommand{BookingID: c.Param("id"), Percent: req.Percent}
	result, err := commands.Dispatch[bookingapp.SetDiscountCommand, *bookingapp.SetDiscountResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Quote(c *gin.Context) {
	q := bookingapp.QuoteBookingQuery{
		ListingID:        c.Param("id"),
		Guests:           intQuery(c, "guests", 1),
		UnitCount:        intQuery(c, "unit_count", 1),
		ExcludeBookingID: c.Query("exclude_booking_id"),
	}
	var err error
	q.Start, q.End, err = parseRangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quote, err := queries.Ask[bookingapp.QuoteBookingQuery, dto.QuoteDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// MyBookings lists the calling guest's bookings.
func (h BookingHandler) MyBookings(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	guestID := c.Query("guest_id")
	if guestID == "" {
		guestID = actor.ID
	}
	q := bookingapp.ListGuestBookingsQuery{GuestID: guestID}
	result, err := queries.Ask[bookingapp.ListGuestBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
