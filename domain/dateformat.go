package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrIllegalArgument is returned when a required call argument is nil or
	// empty. It is raised before any I/O.
	ErrIllegalArgument = errors.New("illegal argument: required argument is nil or empty")

	// ErrInvalidID is returned when a supplied id cannot be interpreted as a
	// store identifier.
	ErrInvalidID = errors.New("invalid identifier")
)

// ErrSchemaViolation is returned when a candidate record does not conform to
// the declared shape. Violations lists every failed constraint, not just the
// first.
type ErrSchemaViolation struct {
	Violations []string
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Violations, "; "))
}

// ErrConstraintViolation is returned when the store rejects a write, e.g. a
// duplicate formatCode or a missing required field that slipped past
// validation. The driver error is kept as the cause.
type ErrConstraintViolation struct {
	Cause error
}

func (e *ErrConstraintViolation) Error() string {
	return fmt.Sprintf("store constraint violation: %v", e.Cause)
}

func (e *ErrConstraintViolation) Unwrap() error {
	return e.Cause
}

// DateFormat is a supported date format definition, one per formatCode.
// ID is assigned by the store on creation and immutable afterwards.
// CreatedAt and UpdatedAt are store bookkeeping and not part of the declared
// shape; createdDate/lastUpdatedDate are the entity's own optional fields.
type DateFormat struct {
	ID              string    `json:"id,omitempty"`
	TenantID        string    `json:"tenantId,omitempty"`
	FormatCode      string    `json:"formatCode,omitempty"`
	TimeFormat      string    `json:"timeFormat,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedDate     string    `json:"createdDate,omitempty"`
	LastUpdatedDate string    `json:"lastUpdatedDate,omitempty"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	UpdatedBy       string    `json:"updatedBy,omitempty"`
	ObjVersion      float64   `json:"objVersion,omitempty"`
	EnabledFlag     string    `json:"enabledFlag,omitempty"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// IsZero reports whether the record is the empty value a miss resolves to.
func (d DateFormat) IsZero() bool {
	return d == DateFormat{}
}

// Enabled flag values accepted by the declared shape.
const (
	FlagDisabled = "0"
	FlagEnabled  = "1"
)

// Attribute names a queryable field of the record. Only names declared in the
// shape are accepted, so callers cannot inject arbitrary filter keys.
type Attribute string

const (
	AttrID              Attribute = "id"
	AttrTenantID        Attribute = "tenantId"
	AttrFormatCode      Attribute = "formatCode"
	AttrTimeFormat      Attribute = "timeFormat"
	AttrDescription     Attribute = "description"
	AttrCreatedDate     Attribute = "createdDate"
	AttrLastUpdatedDate Attribute = "lastUpdatedDate"
	AttrCreatedBy       Attribute = "createdBy"
	AttrUpdatedBy       Attribute = "updatedBy"
	AttrObjVersion      Attribute = "objVersion"
	AttrEnabledFlag     Attribute = "enabledFlag"
)

var queryable = map[Attribute]struct{}{
	AttrID:              {},
	AttrTenantID:        {},
	AttrFormatCode:      {},
	AttrTimeFormat:      {},
	AttrDescription:     {},
	AttrCreatedDate:     {},
	AttrLastUpdatedDate: {},
	AttrCreatedBy:       {},
	AttrUpdatedBy:       {},
	AttrObjVersion:      {},
	AttrEnabledFlag:     {},
}

func (a Attribute) Validate() error {
	if a == "" {
		return ErrIllegalArgument
	}
	if _, ok := queryable[a]; !ok {
		return fmt.Errorf("%w: unknown attribute %q", ErrIllegalArgument, string(a))
	}
	return nil
}

// Filter is an equality match on a single declared attribute.
type Filter struct {
	Attribute Attribute
	Value     any
}

func (f Filter) Validate() error {
	if err := f.Attribute.Validate(); err != nil {
		return err
	}
	if f.Value == nil {
		return ErrIllegalArgument
	}
	return nil
}
