package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"formkit/internal/service"
	"formkit/internal/validation"
)

type Handler struct {
	service *service.Service
}

type ProblemDetails struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail,omitempty"`
	Instance  string            `json:"instance,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

const (
	problemContentType         = "application/problem+json"
	problemTypeValidation      = "https://formkit.test/problems/validation-error"
	problemTypeConflict        = "https://formkit.test/problems/conflict"
	problemTypeUnauthorized    = "https://formkit.test/problems/unauthorized"
	problemTypeTooManyRequests = "https://formkit.test/problems/too-many-requests"
	problemTypeInternal        = "https://formkit.test/problems/internal-error"
	problemTypeInvalidParam    = "https://formkit.test/problems/invalid-parameter"
)

const (
	defaultCursorLimit = 20
	maxCursorLimit     = 100
)

const (
	headerPageLimit  = "X-Page-Limit"
	headerNextCursor = "X-Next-Cursor"
	headerRequestID  = "X-Request-ID"
)

type RouterConfig struct {
	ServiceName string
	RateLimit   RateLimitConfig
	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter builds the API. ctx bounds background work started by the
// router, such as the rate limiter cleanup.
func NewRouter(ctx context.Context, svc *service.Service, cfg RouterConfig) *gin.Engine {
	if strings.TrimSpace(cfg.ServiceName) == "" {
		cfg.ServiceName = "formkit-api"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := validation.RegisterBinding(); err != nil {
		logger.Error("register binding validations", "error", err)
	}

	router := gin.New()
	h := &Handler{service: svc}
	router.Use(
		requestid.New(),
		panicRecoveryMiddleware(logger),
		otelgin.Middleware(cfg.ServiceName),
		requestObservabilityMiddleware(logger),
	)

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api")
	v1 := api.Group("/v1")

	v1.GET("/health", h.health)
	v1.POST("/format/:kind", h.format)
	v1.POST("/validate/:kind", h.validate)
	v1.POST("/fields/evaluate", h.evaluateField)
	v1.POST("/age", h.age)

	limited := v1.Group("")
	if cfg.RateLimit.Enabled() {
		limited.Use(rateLimitMiddleware(ctx, cfg.RateLimit, logger))
	}
	limited.POST("/auth/signup", h.signUp)
	limited.POST("/auth/login", h.login)
	limited.POST("/auth/password-recovery", h.passwordRecovery)
	limited.POST("/contact-messages", h.createContactMessage)

	protected := v1.Group("")
	protected.Use(h.requireAuth())
	protected.GET("/contact-messages", h.listContactMessages)

	return router
}

type valueRequest struct {
	Value string `json:"value"`
}

type ageRequest struct {
	BirthDate string `json:"birth_date" binding:"required"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) format(c *gin.Context) {
	var input valueRequest
	if !h.bindJSON(c, &input) {
		return
	}

	output, err := h.service.Format(c.Param("kind"), input.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) validate(c *gin.Context) {
	var input valueRequest
	if !h.bindJSON(c, &input) {
		return
	}

	output, err := h.service.ValidateValue(c.Param("kind"), input.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) evaluateField(c *gin.Context) {
	var input service.EvaluateFieldInput
	if !h.bindJSON(c, &input) {
		return
	}

	output, err := h.service.EvaluateField(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) age(c *gin.Context) {
	var input ageRequest
	if !h.bindJSON(c, &input) {
		return
	}

	output, err := h.service.Age(input.BirthDate)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) signUp(c *gin.Context) {
	var input service.SignUpInput
	if !h.bindJSON(c, &input) {
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var input service.LoginInput
	if !h.bindJSON(c, &input) {
		return
	}

	output, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) passwordRecovery(c *gin.Context) {
	var input service.PasswordRecoveryInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.service.RequestPasswordRecovery(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, result)
}

func (h *Handler) createContactMessage(c *gin.Context) {
	var input service.ContactMessageInput
	if !h.bindJSON(c, &input) {
		return
	}

	message, err := h.service.SubmitContactMessage(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *Handler) listContactMessages(c *gin.Context) {
	limit, cursor, err := parseCursorPagination(c)
	if err != nil {
		h.writeProblem(c, http.StatusBadRequest, problemTypeInvalidParam, "Invalid Parameter", err.Error())
		return
	}

	messages, nextCursor, err := h.service.ListContactMessagesWithCursor(c.Request.Context(), limit, cursor)
	if err != nil {
		h.writeError(c, err)
		return
	}

	setCursorHeaders(c, limit, nextCursor)
	c.JSON(http.StatusOK, messages)
}

// bindJSON writes the validation problem itself and reports whether the
// handler may continue.
func (h *Handler) bindJSON(c *gin.Context, target any) bool {
	err := c.ShouldBindJSON(target)
	if err == nil {
		return true
	}

	detail := fmt.Sprintf("invalid request body: %s", err.Error())
	if fieldErrs, ok := errors.AsType[validator.ValidationErrors](err); ok {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fmt.Sprintf("failed on %q", fe.Tag())
		}
		writeProblemResponseWithErrors(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", "invalid request body", fields)
		return false
	}
	h.writeProblem(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", detail)
	return false
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if fieldErrs, ok := errors.AsType[*service.FieldErrors](err); ok {
		writeProblemResponseWithErrors(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", "invalid form fields", fieldErrs.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		h.writeProblem(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", err.Error())
	case errors.Is(err, service.ErrConflict):
		h.writeProblem(c, http.StatusConflict, problemTypeConflict, "Conflict", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		h.writeProblem(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", err.Error())
	default:
		_ = c.Error(err)
		markSpanError(c.Request.Context(), err, "internal server error", classifyErrorType(err))
		slog.ErrorContext(c.Request.Context(), "internal server error", traceLogAttrs(c.Request.Context(), []any{
			"error", err.Error(),
			"error_type", classifyErrorType(err),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", requestid.Get(c),
		})...)
		h.writeProblem(c, http.StatusInternalServerError, problemTypeInternal, "Internal Server Error", "internal server error")
	}
}

func (h *Handler) writeProblem(c *gin.Context, status int, problemType string, title string, detail string) {
	writeProblemResponse(c, status, problemType, title, detail)
}

func writeProblemResponse(c *gin.Context, status int, problemType string, title string, detail string) {
	writeProblemResponseWithErrors(c, status, problemType, title, detail, nil)
}

func writeProblemResponseWithErrors(c *gin.Context, status int, problemType string, title string, detail string, fields map[string]string) {
	if problemType == "" {
		problemType = "about:blank"
	}
	if title == "" {
		title = http.StatusText(status)
	}

	requestID := requestid.Get(c)
	if requestID != "" {
		c.Header(headerRequestID, requestID)
	}

	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(status, ProblemDetails{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: requestID,
		Errors:    fields,
	})
}

func classifyErrorType(err error) string {
	if err == nil {
		return "unknown"
	}
	root := err
	for {
		unwrapped := errors.Unwrap(root)
		if unwrapped == nil {
			break
		}
		root = unwrapped
	}
	return fmt.Sprintf("%T", root)
}

func parseCursorPagination(c *gin.Context) (int, *string, error) {
	limit := defaultCursorLimit
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		parsedLimit, err := strconv.Atoi(rawLimit)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid parameter %q: must be an integer between 1 and %d", "limit", maxCursorLimit)
		}
		if parsedLimit < 1 || parsedLimit > maxCursorLimit {
			return 0, nil, fmt.Errorf("invalid parameter %q: must be between 1 and %d", "limit", maxCursorLimit)
		}
		limit = parsedLimit
	}

	rawCursor := strings.TrimSpace(c.Query("cursor"))
	if rawCursor == "" {
		return limit, nil, nil
	}

	parsedCursor, err := uuid.Parse(rawCursor)
	if err != nil || parsedCursor.Version() != 7 {
		return 0, nil, fmt.Errorf("invalid parameter %q: must be a UUIDv7", "cursor")
	}

	cursor := parsedCursor.String()
	return limit, &cursor, nil
}

func setCursorHeaders(c *gin.Context, limit int, nextCursor *string) {
	c.Header(headerPageLimit, strconv.Itoa(limit))
	c.Header(headerNextCursor, "")
	c.Header("Link", "")

	if nextCursor == nil || strings.TrimSpace(*nextCursor) == "" {
		return
	}

	c.Header(headerNextCursor, *nextCursor)
	nextURL := buildNextPageURL(c, *nextCursor, limit)
	if nextURL != "" {
		c.Header("Link", fmt.Sprintf("<%s>; rel=\"next\"", nextURL))
	}
}

func buildNextPageURL(c *gin.Context, nextCursor string, limit int) string {
	u := &url.URL{Path: c.Request.URL.Path}
	query := c.Request.URL.Query()
	query.Set("cursor", nextCursor)
	query.Set("limit", strconv.Itoa(limit))
	u.RawQuery = query.Encode()
	return u.String()
}
