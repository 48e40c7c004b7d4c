package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"formkit/internal/db/repository"
	"formkit/internal/forms"
	"formkit/internal/mask"
	"formkit/internal/validation"
)

type accessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PasswordRecoveryMessage is returned whether or not the e-mail belongs to a
// user.
const PasswordRecoveryMessage = "If the e-mail is registered, you will receive recovery instructions shortly."

const resetTokenBytes = 32

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) EnsureUser(ctx context.Context, email string, password string) error {
	normalizedEmail := normalizeEmail(email)
	if normalizedEmail == "" || !validation.IsValidEmail(normalizedEmail) {
		return validationError("invalid email")
	}
	if len(password) < forms.MinPasswordLength {
		return validationError(fmt.Sprintf("password must have at least %d characters", forms.MinPasswordLength))
	}
	if forms.PasswordTooLong(password) {
		return validationError(fmt.Sprintf("password must have at most %d bytes", forms.MaxPasswordBytes))
	}

	_, err := s.queries.GetUserByEmail(ctx, normalizedEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.createUser(ctx, repository.CreateUserParams{Email: normalizedEmail}, password)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil
		}
		return err
	}

	return nil
}

func (s *Service) SignUp(ctx context.Context, input SignUpInput) (UserOutput, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.SignUp")
	defer span.End()

	now := s.now()
	if errs := input.form().ValidateAt(now); errs.Any() {
		return UserOutput{}, fieldErrors(errs)
	}

	params := repository.CreateUserParams{
		Email: normalizeEmail(input.Email),
		Cpf:   optionalString(mask.Digits(input.CPF)),
	}
	if strings.TrimSpace(input.BirthDate) != "" {
		birth, ok := validation.ParseCalendarDate(mask.BirthDate(input.BirthDate), time.UTC)
		if !ok {
			return UserOutput{}, validationError("invalid birth_date")
		}
		params.BirthDate = sql.NullTime{Time: birth, Valid: true}
	}

	user, err := s.createUser(ctx, params, input.Password)
	if err != nil {
		return UserOutput{}, err
	}
	return mapUser(user, now), nil
}

func (s *Service) createUser(ctx context.Context, params repository.CreateUserParams, password string) (repository.User, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return repository.User{}, validationError(fmt.Sprintf("password must have at most %d bytes", forms.MaxPasswordBytes))
		}
		return repository.User{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := newUUIDV7()
	if err != nil {
		return repository.User{}, err
	}

	params.ID = userID
	params.PasswordHash = string(passwordHash)
	user, err := s.queries.CreateUser(ctx, params)
	if err != nil {
		if isUniqueConstraintError(err) {
			return repository.User{}, conflictError("email already registered")
		}
		return repository.User{}, mapDatabaseError(err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (LoginOutput, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.Login")
	defer span.End()

	email := normalizeEmail(input.Email)
	if email == "" || !validation.IsValidEmail(email) {
		return LoginOutput{}, validationError("invalid email")
	}
	if strings.TrimSpace(input.Password) == "" {
		return LoginOutput{}, validationError("password is required")
	}
	if len(s.jwtSigningKey) == 0 {
		return LoginOutput{}, fmt.Errorf("jwt signing key is not configured")
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Keep timing close to existing-user path to reduce account enumeration via latency.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(input.Password))
			return LoginOutput{}, unauthorizedError("invalid credentials")
		}
		return LoginOutput{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return LoginOutput{}, unauthorizedError("invalid credentials")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	claims := accessTokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return LoginOutput{}, fmt.Errorf("sign access token: %w", err)
	}

	return LoginOutput{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *Service) ValidateAccessToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return unauthorizedError("invalid token")
	}
	if len(s.jwtSigningKey) == 0 {
		return fmt.Errorf("jwt signing key is not configured")
	}

	claims := &accessTokenClaims{}
	parsedToken, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, unauthorizedError("invalid token")
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsedToken.Valid {
		return unauthorizedError("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return unauthorizedError("invalid token")
	}

	return nil
}

// RequestPasswordRecovery answers with PasswordRecoveryMessage for unknown
// e-mails too. Only the SHA-256 of the reset token is stored.
func (s *Service) RequestPasswordRecovery(ctx context.Context, input PasswordRecoveryInput) (forms.Result, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.RequestPasswordRecovery")
	defer span.End()

	var recoveryErr error
	form := forms.PasswordRecoveryForm{Email: input.Email}
	result, errs := forms.Submit(ctx, form, func(ctx context.Context, form forms.PasswordRecoveryForm) (forms.Result, error) {
		if err := s.recoverPassword(ctx, normalizeEmail(form.Email)); err != nil {
			recoveryErr = err
			return forms.Result{}, err
		}
		return forms.Succeeded(PasswordRecoveryMessage), nil
	})
	if errs.Any() {
		return forms.Result{}, fieldErrors(errs)
	}
	if recoveryErr != nil {
		return forms.Result{}, recoveryErr
	}
	return result.WithColor(forms.Palette{}), nil
}

func (s *Service) recoverPassword(ctx context.Context, email string) error {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	return s.withTx(ctx, func(q repository.Querier) error {
		return s.issuePasswordReset(ctx, q, user)
	})
}

func (s *Service) issuePasswordReset(ctx context.Context, q repository.Querier, user repository.User) error {
	now := s.now().UTC()
	if _, err := q.DeleteExpiredPasswordResets(ctx, now); err != nil {
		return fmt.Errorf("delete expired password resets: %w", err)
	}

	token, tokenHash, err := newResetToken()
	if err != nil {
		return err
	}
	resetID, err := newUUIDV7()
	if err != nil {
		return err
	}

	expiresAt := now.Add(s.passwordResetTTL)
	if _, err := q.CreatePasswordReset(ctx, repository.CreatePasswordResetParams{
		ID:        resetID,
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return mapDatabaseError(err)
	}

	if s.notifyReset != nil {
		if err := s.notifyReset(ctx, user.Email, token, expiresAt); err != nil {
			return fmt.Errorf("notify password reset: %w", err)
		}
	}
	return nil
}

func (s *Service) withTx(ctx context.Context, fn func(q repository.Querier) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(s.txQuerier(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func newResetToken() (string, string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	return token, hashResetToken(token), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func mapUser(user repository.User, now time.Time) UserOutput {
	output := UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		CPF:       nullToPointer(user.Cpf),
		CreatedAt: user.CreatedAt,
	}
	if output.CPF != nil {
		masked := mask.CPF(*output.CPF)
		output.CPF = &masked
	}
	if user.BirthDate.Valid {
		formatted := user.BirthDate.Time.Format("02/01/2006")
		output.BirthDate = &formatted
		if age, ok := validation.CalculateAge(formatted, now); ok {
			output.Age = &age
		}
	}
	return output
}
