package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "musafir/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandlers(nil)
	r.GET("/health", h.Health)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation error carries its message",
			err:      apperrors.NewValidation("price", "must be positive"),
			wantCode: http.StatusBadRequest,
			wantBody: "price",
		},
		{
			name:     "not found",
			err:      apperrors.ErrNotFound,
			wantCode: http.StatusNotFound,
			wantBody: "Not found",
		},
		{
			name:     "unauthorized",
			err:      apperrors.ErrUnauthorized,
			wantCode: http.StatusUnauthorized,
			wantBody: "Unauthorized",
		},
		{
			name:     "forbidden",
			err:      apperrors.ErrForbidden,
			wantCode: http.StatusForbidden,
			wantBody: "Forbidden",
		},
		{
			name:     "conflict",
			err:      apperrors.ErrConflict,
			wantCode: http.StatusConflict,
			wantBody: "Conflict",
		},
		{
			name:     "unclassified errors stay generic",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			h := NewHandlers(nil)
			r.GET("/fail", func(c *gin.Context) {
				h.respondError(c, tt.err)
			})

			req, _ := http.NewRequest("GET", "/fail", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

// Internal failures never leak driver or stack detail to the client.
func TestRespondErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandlers(nil)
	r.GET("/fail", func(c *gin.Context) {
		h.respondError(c, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))
	})

	req, _ := http.NewRequest("GET", "/fail", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
