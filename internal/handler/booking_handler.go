package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Platform/service-sharing/internal/application"
	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.SharerUserMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListRenterBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.DecideBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.BadRequest(c, "missing "+middleware.HeaderSharerUserID+" header")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.RequestBooking(c.Request.Context(), actorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DecideBooking handles PATCH /bookings/:bookingId?approved=true|false.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId")
	if !ok {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.BadRequest(c, "missing "+middleware.HeaderSharerUserID+" header")
		return
	}
	raw, present := c.GetQuery("approved")
	if !present {
		response.BadRequest(c, "approved parameter is required")
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.DecideBooking(c.Request.Context(), bookingID, actorID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId. Visible to the booker and the item owner.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, ok := parseID(c, "bookingId")
	if !ok {
		response.BadRequest(c, "invalid booking ID")
		return
	}
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.BadRequest(c, "missing "+middleware.HeaderSharerUserID+" header")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListRenterBookings handles GET /bookings.
func (h *BookingHandler) ListRenterBookings(c *gin.Context) {
	h.list(c, h.service.ListByRenter)
}

// ListOwnerBookings handles GET /bookings/owner.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListByOwner)
}

type listFn func(ctx context.Context, actorID int64, state string, from, size int) ([]application.BookingDTO, error)

func (h *BookingHandler) list(c *gin.Context, fn listFn) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		response.BadRequest(c, "missing "+middleware.HeaderSharerUserID+" header")
		return
	}
	from, size, ok := parsePagination(c)
	if !ok {
		response.BadRequest(c, "from and size must be integers")
		return
	}

	result, err := fn(c.Request.Context(), actorID, c.Query("state"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
