package ports

import (
	"context"

	"github.com/evolvus/dateformats/domain"
)

// DateFormatRepository translates typed queries and save intents into record
// store calls. A miss is reported through the found flag, never as an error;
// store failures propagate as errors.
type DateFormatRepository interface {
	// Save persists a new record. The caller is expected to have validated the
	// shape already; the store still enforces uniqueness of formatCode and
	// required-field presence, surfacing breaches as
	// *domain.ErrConstraintViolation.
	Save(ctx context.Context, rec domain.DateFormat) (domain.DateFormat, error)

	// FindAll returns at most limit records, or every record when limit < 1.
	// Order is indeterminate.
	FindAll(ctx context.Context, limit int) ([]domain.DateFormat, error)

	// FindOne returns the first record matching the filter.
	FindOne(ctx context.Context, filter domain.Filter) (domain.DateFormat, bool, error)

	// FindMany returns every record matching the filter.
	FindMany(ctx context.Context, filter domain.Filter) ([]domain.DateFormat, error)

	// FindByID looks a record up by its store identifier. A malformed id fails
	// with domain.ErrInvalidID.
	FindByID(ctx context.Context, id string) (domain.DateFormat, bool, error)

	// DeleteAll removes every record and returns the count. Test/reset utility
	// only; not part of the production contract surface.
	DeleteAll(ctx context.Context) (int64, error)
}
