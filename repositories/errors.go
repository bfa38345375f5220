package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"tea-techniques-api/models"
)

// TranslateError maps persistence-layer failures onto API error classes.
// Unique violations become Conflict; referential mismatches become
// ValidationError; anything unrecognized is an InternalError.
func TranslateError(err error) *models.APIError {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFound("Not found.")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return models.NewConflict("A record with these values already exists")
		case pgerrcode.ForeignKeyViolation:
			return models.NewFieldError("non_field_errors", "Referenced record does not exist")
		}
	}

	// The embedded sqlite store reports constraint failures as strings.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return models.NewConflict("A record with these values already exists")
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return models.NewFieldError("non_field_errors", "Referenced record does not exist")
	}

	return models.NewInternalError()
}
