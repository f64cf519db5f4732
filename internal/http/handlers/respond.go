package handlers

import (
	"net/http"

	"github.com/geocoder89/accounthub/internal/account"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusNotFound, code, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// respondAccountError maps the service's symbolic kinds onto HTTP statuses.
// The kind string is the body's error code, so API clients branch on the
// same enumeration the service raises.
func respondAccountError(ctx *gin.Context, err error, fallback string) {
	kind := account.KindOf(err)

	switch kind {
	case account.KindUnauthorized:
		RespondUnAuthorized(ctx, string(kind), "Authentication required.")
	case account.KindNoUserWithThatEmail, account.KindIncorrectPassword:
		RespondUnAuthorized(ctx, string(kind), "Email or password is incorrect.")
	case account.KindInvalidEmail:
		RespondError(ctx, http.StatusBadRequest, string(kind), "Email must contain an @ character.", nil)
	case account.KindNoUserWithThatID, account.KindNoUserFound:
		RespondNotFound(ctx, string(kind), "No such user.")
	case account.KindEmailAlreadyRegistered:
		RespondConflict(ctx, string(kind), "Email is already in use.")
	default:
		// store/infra failure, not a symbolic code
		RespondInternal(ctx, fallback)
	}
}
