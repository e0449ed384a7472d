package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"usersvc/internal/app"
	"usersvc/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
}

// CreateUserRequest is the only accepted POST /users body. Unknown fields
// are rejected at decode time (strict binding is enabled on the router).
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, bindingViolations(err), "Bad Request")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), app.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		var conflict *app.ConflictError
		if errors.As(err, &conflict) {
			response.Fail(c, http.StatusConflict, conflict.Error(), "Conflict")
			return
		}
		response.Internal(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
