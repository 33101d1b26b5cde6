package api

import (
	"fmt"
	"net/http"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the administrator's staff management.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateUserRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email" binding:"omitempty,email"`
	Password    string      `json:"password" binding:"omitempty,min=8"`
	Role        domain.Role `json:"role" binding:"omitempty,oneof=administrador entrenador"`
	PhoneNumber string      `json:"phoneNumber"`
	Gym         string      `json:"gym"`
	City        string      `json:"city"`
}

// ListUsers handles GET /users?role=entrenador
func (h *UserHandler) ListUsers(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	users, err := h.userService.ListUsers(c.Request.Context(), sess, domain.Role(c.Query("role")))
	if err != nil {
		abortWithServiceError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), sess, id)
	if err != nil {
		abortWithServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), sess, id, service.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
		Gym:         req.Gym,
		City:        req.City,
	})
	if err != nil {
		abortWithServiceError(c, err, "update user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), sess, id); err != nil {
		abortWithServiceError(c, err, "delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
