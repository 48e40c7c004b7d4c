package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"formkit/internal/forms"
	"formkit/internal/service"
)

func TestParseCursorPaginationRejectsInvalidLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/contact-messages?limit=0", nil)

	_, _, err := parseCursorPagination(c)
	if err == nil {
		t.Fatalf("expected parseCursorPagination error")
	}
}

func TestParseCursorPaginationRejectsInvalidCursor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/contact-messages?cursor=invalid", nil)

	_, _, err := parseCursorPagination(c)
	if err == nil {
		t.Fatalf("expected parseCursorPagination error")
	}
}

func TestParseCursorPaginationAcceptsUUIDV7Cursor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("new uuidv7: %v", err)
	}
	c.Request = httptest.NewRequest("GET", "/api/v1/contact-messages?limit=5&cursor="+id.String(), nil)

	limit, cursor, err := parseCursorPagination(c)
	if err != nil {
		t.Fatalf("parseCursorPagination: %v", err)
	}
	if limit != 5 {
		t.Fatalf("expected limit 5, got %d", limit)
	}
	if cursor == nil || *cursor != id.String() {
		t.Fatalf("expected cursor %s, got %v", id.String(), cursor)
	}
}

func TestSetCursorHeadersSetsNextHeadersWhenPresent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/contact-messages?limit=2", nil)

	next, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("new uuidv7: %v", err)
	}
	nextStr := next.String()
	setCursorHeaders(c, 2, &nextStr)

	if got := c.Writer.Header().Get("X-Page-Limit"); got != "2" {
		t.Fatalf("expected X-Page-Limit=2, got %q", got)
	}
	if got := c.Writer.Header().Get("X-Next-Cursor"); got != nextStr {
		t.Fatalf("expected X-Next-Cursor=%q, got %q", nextStr, got)
	}
	if got := c.Writer.Header().Get("Link"); got == "" {
		t.Fatalf("expected Link header")
	}
}

func TestWriteErrorMapsFieldErrorsToProblemDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/contact-messages", nil)

	h := &Handler{}
	h.writeError(c, &service.FieldErrors{Fields: forms.FieldErrors{"phone": "Phone is required"}})

	if w.Code != 400 {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != problemContentType {
		t.Fatalf("expected problem content type, got %q", got)
	}
}

func TestWriteErrorMapsServiceSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: value too long", service.ErrValidation), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: email already registered", service.ErrConflict), want: http.StatusConflict},
		{err: fmt.Errorf("%w: invalid token", service.ErrUnauthorized), want: http.StatusUnauthorized},
		{err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("POST", "/api/v1/auth/signup", nil)

		h := &Handler{}
		h.writeError(c, tt.err)

		if w.Code != tt.want {
			t.Fatalf("writeError(%v): expected %d, got %d", tt.err, tt.want, w.Code)
		}
	}
}

func TestClassifyErrorTypeUnwrapsToRoot(t *testing.T) {
	err := &service.FieldErrors{}
	if got := classifyErrorType(err); got != "*errors.errorString" {
		t.Fatalf("expected root sentinel type, got %q", got)
	}
}
