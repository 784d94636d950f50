package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Platform/service-sharing/internal/application"
	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

// RequestHandler handles HTTP requests for item requests.
type RequestHandler struct {
	service *application.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(service *application.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// RegisterRoutes registers all item request routes on the given router group.
func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	requests.Use(middleware.SharerUserMiddleware())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOwnRequests)
		requests.GET("/all", h.ListOtherRequests)
		requests.GET("/:requestId", h.GetRequest)
	}
}

// CreateRequest handles POST /requests.
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	var req application.CreateItemRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.CreateRequest(c.Request.Context(), actorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOwnRequests handles GET /requests.
func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	result, err := h.service.ListOwnRequests(c.Request.Context(), actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOtherRequests handles GET /requests/all?from=&size=.
func (h *RequestHandler) ListOtherRequests(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)
	from, size, ok := parsePagination(c)
	if !ok {
		response.BadRequest(c, "from and size must be integers")
		return
	}

	result, err := h.service.ListOtherRequests(c.Request.Context(), actorID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRequest handles GET /requests/:requestId.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, ok := parseID(c, "requestId")
	if !ok {
		response.BadRequest(c, "invalid request ID")
		return
	}
	actorID, _ := middleware.GetActorID(c)

	result, err := h.service.GetRequest(c.Request.Context(), actorID, requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
