package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"golang.org/x/text/unicode/norm"

	"formkit/internal/db/repository"
	"formkit/internal/mask"
)

const ContactMessageReceived = "Message received. We will get back to you soon."

func (s *Service) SubmitContactMessage(ctx context.Context, input ContactMessageInput) (ContactMessageOutput, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.SubmitContactMessage")
	defer span.End()

	input = ContactMessageInput{
		Name:    normalizeText(input.Name),
		Email:   normalizeEmail(input.Email),
		Phone:   mask.Phone(input.Phone),
		Message: normalizeText(input.Message),
	}
	if errs := input.form().Validate(); errs.Any() {
		return ContactMessageOutput{}, fieldErrors(errs)
	}

	messageID, err := newUUIDV7()
	if err != nil {
		return ContactMessageOutput{}, err
	}

	message, err := s.queries.CreateContactMessage(ctx, repository.CreateContactMessageParams{
		ID:      messageID,
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	})
	if err != nil {
		return ContactMessageOutput{}, mapDatabaseError(err)
	}

	return mapContactMessage(message), nil
}

func (s *Service) ListContactMessagesWithCursor(ctx context.Context, limit int, cursor *string) ([]ContactMessageOutput, *string, error) {
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, "Service.ListContactMessagesWithCursor")
	defer span.End()

	pageLimit := normalizeCursorLimit(limit)
	queryLimit := int32(pageLimit + 1)

	beforeID := uuid.NullUUID{}
	if cursor != nil {
		parsedBeforeID, err := uuid.Parse(*cursor)
		if err != nil {
			return nil, nil, validationError("invalid cursor")
		}
		beforeID.UUID = parsedBeforeID
		beforeID.Valid = true
	}

	rows, err := s.queries.ListContactMessagesCursor(ctx, repository.ListContactMessagesCursorParams{
		BeforeID:  beforeID,
		PageLimit: queryLimit,
	})
	if err != nil {
		return nil, nil, err
	}

	hasNext := len(rows) > pageLimit
	if hasNext {
		rows = rows[:pageLimit]
	}

	output := make([]ContactMessageOutput, 0, len(rows))
	for _, row := range rows {
		output = append(output, mapContactMessage(row))
	}

	var nextCursor *string
	if hasNext && len(rows) > 0 {
		cursorValue := rows[len(rows)-1].ID
		nextCursor = &cursorValue
	}

	return output, nextCursor, nil
}

// normalizeText composes accents (NFC) so "é" typed as e + U+0301 is stored
// and counted as one character.
func normalizeText(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

func mapContactMessage(row repository.ContactMessage) ContactMessageOutput {
	return ContactMessageOutput{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Message:   row.Message,
		CreatedAt: row.CreatedAt,
	}
}
