package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/accounthub/internal/account"
	"github.com/geocoder89/accounthub/internal/domain/user"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// UserService is the authenticated slice of the account service.
type UserService interface {
	ListAllUsers(ctx context.Context, actx account.AuthContext) ([]user.User, error)
	GetUserByID(ctx context.Context, actx account.AuthContext, id string) (user.User, error)
	CurrentUser(actx account.AuthContext) (user.User, error)
	EditUser(ctx context.Context, actx account.AuthContext, id, email, firstName, secondName, password string) (user.User, error)
}

type UsersHandler struct {
	svc UserService
}

func NewUsersHandler(svc UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

type EditUserRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	SecondName string `json:"secondName" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	users, err := h.svc.ListAllUsers(cctx, middlewares.AuthContextFrom(ctx))

	if err != nil {
		respondAccountError(ctx, err, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.svc.GetUserByID(cctx, middlewares.AuthContextFrom(ctx), id)

	if err != nil {
		respondAccountError(ctx, err, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) CurrentUser(ctx *gin.Context) {
	u, err := h.svc.CurrentUser(middlewares.AuthContextFrom(ctx))

	if err != nil {
		respondAccountError(ctx, err, "Could not fetch current user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// EditUser overwrites the target record. Deliberately permissive: any
// authenticated caller may edit any user, matching the documented contract.
func (h *UsersHandler) EditUser(ctx *gin.Context) {
	id := ctx.Param("id")

	var req EditUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	u, err := h.svc.EditUser(cctx, middlewares.AuthContextFrom(ctx), id, req.Email, req.FirstName, req.SecondName, req.Password)

	if err != nil {
		respondAccountError(ctx, err, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
