package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/accounthub/internal/account"
	"github.com/geocoder89/accounthub/internal/observability"
	"github.com/gin-gonic/gin"
)

// Authenticator is the slice of the account service the anonymous endpoints
// need. Tests fake it.
type Authenticator interface {
	SignUp(ctx context.Context, firstName, secondName, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (account.LoginResult, error)
}

type AuthHandler struct {
	svc     Authenticator
	metrics *observability.Prom
}

func NewAuthHandler(svc Authenticator, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		metrics: metrics,
	}
}

// Email carries no format tag on purpose: the only email validation in the
// contract is the service's "@" substring check.
type SignUpRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	SecondName string `json:"secondName" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)

	defer cancel()

	token, err := h.svc.SignUp(cctx, req.FirstName, req.SecondName, req.Email, req.Password)

	if err != nil {
		respondAccountError(ctx, err, "Could not create user")
		return
	}

	if h.metrics != nil {
		h.metrics.TokensIssued.WithLabelValues("signup").Inc()
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt comparison dominates here, keep the budget generous
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.svc.Login(cctx, req.Email, req.Password)

	if err != nil {
		kind := account.KindOf(err)

		if h.metrics != nil && (kind == account.KindNoUserWithThatEmail || kind == account.KindIncorrectPassword) {
			h.metrics.LoginFailures.Inc()
		}

		respondAccountError(ctx, err, "Could not log in")
		return
	}

	if h.metrics != nil {
		h.metrics.TokensIssued.WithLabelValues("login").Inc()
	}

	ctx.JSON(http.StatusOK, result)
}
