package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/availability"
	bookingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/booking"
	listingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/listing"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
	inframongo "github.com/quantum-brackets/45group-sub001/internal/infra/db/mongo"
	inframemory "github.com/quantum-brackets/45group-sub001/internal/infra/storage/memory"
)

// writeError maps application and domain errors onto HTTP statuses. Gate
// failures and unit conflicts are client-resolvable conflicts, not server
// faults.
func writeError(c *gin.Context, err error) {
	var gate *domainbooking.GateError
	switch {
	case errors.Is(err, policies.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainlisting.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &gate):
		c.JSON(http.StatusConflict, gin.H{
			"error":    gate.Error(),
			"action":   gate.Action,
			"required": gate.Required.Amount,
			"actual":   gate.Actual.Amount,
			"currency": gate.Required.Currency,
		})
	case errors.Is(err, bookingapp.ErrNotEnoughUnits),
		errors.Is(err, inframemory.ErrUnitConflict),
		errors.Is(err, inframongo.ErrUnitConflict),
		errors.Is(err, inframongo.ErrConcurrentUpdate),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrActorUnknown),
		errors.Is(err, listingapp.ErrActorUnknown):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, bookingapp.ErrUnitOfWorkRequired),
		errors.Is(err, listingapp.ErrUnitOfWorkRequired),
		errors.Is(err, availabilityapp.ErrUnitOfWorkRequired):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
