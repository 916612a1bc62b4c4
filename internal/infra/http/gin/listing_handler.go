package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	listingapp "github.com/quantum-brackets/45group-sub001/internal/app/handlers/listing"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
)

type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h ListingHandler) List(c *gin.Context) {
	q := listingapp.ListListingsQuery{OnlyActive: c.Query("only_active") == "true"}
	result, err := queries.Ask[listingapp.ListListingsQuery, dto.ListingCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Get(c *gin.Context) {
	q := listingapp.GetListingQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.ListingDTO](c.Request.Context(), h.Queries, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createListingRequest struct {
	Name      string                   `json:"name"`
	Location  string                   `json:"location"`
	Type      string                   `json:"type"`
	Rate      int64                    `json:"rate"`
	Currency  string                   `json:"currency"`
	RateUnit  string                   `json:"rate_unit"`
	MaxGuests int                      `json:"max_guests"`
	Units     []listingapp.UnitSeedInput `json:"units"`
	Activate  bool                     `json:"activate"`
}

func (h ListingHandler) Create(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.CreateListingCommand{
		Name:      req.Name,
		Location:  req.Location,
		Type:      req.Type,
		Rate:      req.Rate,
		Currency:  req.Currency,
		RateUnit:  req.RateUnit,
		MaxGuests: req.MaxGuests,
		Units:     req.Units,
		Activate:  req.Activate,
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateListingRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	Rate      int64  `json:"rate"`
	Currency  string `json:"currency"`
	RateUnit  string `json:"rate_unit"`
	MaxGuests int    `json:"max_guests"`
}

func (h ListingHandler) Update(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID: c.Param("id"),
		Name:      req.Name,
		Location:  req.Location,
		Rate:      req.Rate,
		Currency:  req.Currency,
		RateUnit:  req.RateUnit,
		MaxGuests: req.MaxGuests,
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *listingapp.UpdateListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type resizeInventoryRequest struct {
	Units []listingapp.UnitSeedInput `json:"units"`
}

func (h ListingHandler) ResizeInventory(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req resizeInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := listingapp.ResizeInventoryCommand{ListingID: c.Param("id"), Units: req.Units}
	result, err := commands.Dispatch[listingapp.ResizeInventoryCommand, *listingapp.ResizeInventoryResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Activate(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	cmd := listingapp.ActivateListingCommand{ListingID: c.Param("id")}
	result, err := commands.Dispatch[listingapp.ActivateListingCommand, *listingapp.SetStateResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type suspendListingRequest struct {
	Reason string `json:"reason"`
}

func (h ListingHandler) Suspend(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req suspendListingRequest
	_ = c.ShouldBindJSON(&req)
	cmd := listingapp.SuspendListingCommand{ListingID: c.Param("id"), Reason: req.Reason}
	result, err := commands.Dispatch[listingapp.SuspendListingCommand, *listingapp.SetStateResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
