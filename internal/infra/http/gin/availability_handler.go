package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	availabilityapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/availability"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check reports free inventory units for a listing over an inclusive range.
func (h AvailabilityHandler) Check(c *gin.Context) {
	start, end, err := parseRangeQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := availabilityapp.CheckAvailabilityQuery{
		ListingID:        c.Param("id"),
		Start:            start,
		End:              end,
		ExcludeBookingID: c.Query("exclude_booking_id"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseRangeQuery(c *gin.Context) (time.Time, time.Time, error) {
	start, err := parseDateQuery(c.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateQuery(c.Query("end"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDateQuery(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("start and end dates are required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

var _ AvailabilityHTTP = AvailabilityHandler{}
