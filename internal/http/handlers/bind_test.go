package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/accounthub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindProbe struct {
	FirstName string `json:"firstName" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

func setupBindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/probe", func(c *gin.Context) {
		var req bindProbe

		if !handlers.BindJSON(c, &req) {
			return
		}

		c.Status(http.StatusOK)
	})

	return r
}

func TestBindJSON(t *testing.T) {
	r := setupBindRouter()

	// valid body passes through
	w := doJSON(t, r, http.MethodPost, "/probe", `{"firstName":"Ann","email":"ann@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	// missing fields come back with json-tag field names
	w = doJSON(t, r, http.MethodPost, "/probe", `{"email":"ann@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Details struct {
				Fields []handlers.FieldError `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}

	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Error.Details.Fields) != 1 || resp.Error.Details.Fields[0].Field != "firstName" {
		t.Fatalf("unexpected field diagnostics: %s", w.Body.String())
	}

	// broken json is flagged without a panic
	w = doJSON(t, r, http.MethodPost, "/probe", `{"firstName":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", w.Code, w.Body.String())
	}
}
