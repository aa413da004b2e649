package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation",
			err:      &domain.ValidationError{Field: "message", Message: "Message is required"},
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Message is required"}`,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("loading conversation: %w", domain.ErrNotFound),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"loading conversation: not found"}`,
		},
		{
			name:     "echo error",
			err:      echo.NewHTTPError(http.StatusUnauthorized, "Not authorized"),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Not authorized"}`,
		},
		{
			name:     "unexpected",
			err:      errors.New("disk full"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"disk full"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWriteAttachment(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	var w JSONResponseWriter
	err := w.WriteAttachment(c, echo.MIMETextPlainCharsetUTF8, "chat.txt", []byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, "attachment; filename=chat.txt", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "hello", rec.Body.String())
}
