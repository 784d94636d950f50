package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Platform/service-sharing/internal/application"
	"github.com/ShareIt-Platform/service-sharing/internal/common/middleware"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

// ItemHandler handles HTTP requests for items and their comments.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes on the given router group.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	{
		items.GET("/search", h.SearchItems)

		withActor := items.Group("")
		withActor.Use(middleware.SharerUserMiddleware())
		withActor.POST("", h.CreateItem)
		withActor.GET("", h.ListItems)
		withActor.GET("/:itemId", h.GetItem)
		withActor.PATCH("/:itemId", h.UpdateItem)
		withActor.DELETE("/:itemId", h.DeleteItem)
		withActor.POST("/:itemId/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), actorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem handles PATCH /items/:itemId.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		response.BadRequest(c, "invalid item ID")
		return
	}
	actorID, _ := middleware.GetActorID(c)

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), actorID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem handles GET /items/:itemId.
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		response.BadRequest(c, "invalid item ID")
		return
	}
	actorID, _ := middleware.GetActorID(c)

	result, err := h.service.GetItem(c.Request.Context(), actorID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListItems handles GET /items.
func (h *ItemHandler) ListItems(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)
	from, size, ok := parsePagination(c)
	if !ok {
		response.BadRequest(c, "from and size must be integers")
		return
	}

	result, err := h.service.ListOwnerItems(c.Request.Context(), actorID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchItems handles GET /items/search?text=.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	from, size, ok := parsePagination(c)
	if !ok {
		response.BadRequest(c, "from and size must be integers")
		return
	}

	result, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteItem handles DELETE /items/:itemId.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		response.BadRequest(c, "invalid item ID")
		return
	}
	actorID, _ := middleware.GetActorID(c)

	if err := h.service.DeleteItem(c.Request.Context(), actorID, itemID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddComment handles POST /items/:itemId/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	itemID, ok := parseID(c, "itemId")
	if !ok {
		response.BadRequest(c, "invalid item ID")
		return
	}
	actorID, _ := middleware.GetActorID(c)

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), actorID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
