package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"formkit/internal/db/repository"
)

const serviceTracerName = "formkit/internal/service"

type PasswordResetNotifier func(ctx context.Context, email string, token string, expiresAt time.Time) error

type Service struct {
	db                *sql.DB
	queries           repository.Querier
	txQuerier         func(tx *sql.Tx) repository.Querier
	jwtSigningKey     []byte
	jwtIssuer         string
	jwtAccessTokenTTL time.Duration
	passwordResetTTL  time.Duration
	notifyReset       PasswordResetNotifier
	pivotYear         bool
	now               func() time.Time
}

type Option func(*Service)

func New(db *sql.DB, options ...Option) *Service {
	baseQueries := repository.New(db)
	svc := &Service{
		db:                db,
		queries:           baseQueries,
		txQuerier:         func(tx *sql.Tx) repository.Querier { return baseQueries.WithTx(tx) },
		jwtIssuer:         "formkit-api",
		jwtAccessTokenTTL: 15 * time.Minute,
		passwordResetTTL:  time.Hour,
		now:               time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

func WithAuthConfig(signingKey string, issuer string, accessTokenTTL time.Duration) Option {
	return func(s *Service) {
		s.jwtSigningKey = []byte(strings.TrimSpace(signingKey))
		if strings.TrimSpace(issuer) != "" {
			s.jwtIssuer = strings.TrimSpace(issuer)
		}
		if accessTokenTTL > 0 {
			s.jwtAccessTokenTTL = accessTokenTTL
		}
	}
}

func WithPasswordReset(ttl time.Duration, notify PasswordResetNotifier) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.passwordResetTTL = ttl
		}
		s.notifyReset = notify
	}
}

// WithPivotYear makes birth-date formatting expand a typed ddmmyy to four
// digits.
func WithPivotYear(enabled bool) Option {
	return func(s *Service) {
		s.pivotYear = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func optionalString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullToPointer(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func newUUIDV7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}
	return id.String(), nil
}

func mapDatabaseError(err error) error {
	if isUniqueConstraintError(err) {
		return conflictError("resource already exists")
	}
	if isForeignKeyConstraintError(err) {
		return validationError("invalid relationship reference")
	}
	if isStringTooLongError(err) {
		return validationError("value too long")
	}
	return err
}

func isStringTooLongError(err error) bool {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code == "22001"
	}
	return false
}

func isUniqueConstraintError(err error) bool {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value violates unique constraint")
}

func isForeignKeyConstraintError(err error) bool {
	if pgErr, ok := errors.AsType[*pgconn.PgError](err); ok {
		return pgErr.Code == "23503"
	}
	return strings.Contains(strings.ToLower(err.Error()), "violates foreign key constraint")
}

func normalizeCursorLimit(limit int) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
