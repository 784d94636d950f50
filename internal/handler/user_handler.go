package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ShareIt-Platform/service-sharing/internal/application"
	"github.com/ShareIt-Platform/service-sharing/internal/common/response"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers all user routes on the given router group.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:userId", h.GetUser)
		users.PATCH("/:userId", h.UpdateUser)
		users.DELETE("/:userId", h.DeleteUser)
	}
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req application.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateUser handles PATCH /users/:userId.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		response.BadRequest(c, "invalid user ID")
		return
	}

	var req application.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetUser handles GET /users/:userId.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		response.BadRequest(c, "invalid user ID")
		return
	}

	result, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	result, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteUser handles DELETE /users/:userId.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		response.BadRequest(c, "invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
