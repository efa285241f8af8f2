// Package usecase orchestrates schema validation, the repository and audit
// emission behind the public operations of the module.
package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/evolvus/dateformats/domain"
	"github.com/evolvus/dateformats/ports"
	"github.com/evolvus/dateformats/schema"
)

// Audit operation names, one initiated/failure pair per public operation.
const (
	opValidate    = "supportedDateFormats_validate"
	opValidateErr = "supportedDateFormats_ExceptionOnValidate"
	opSave        = "supportedDateFormats_save"
	opSaveErr     = "supportedDateFormats_ExceptionOnSave"
	opGetAll      = "supportedDateFormats_getAll"
	opGetAllErr   = "supportedDateFormats_ExceptionOnGetAll"
	opGetByID     = "supportedDateFormats_getById"
	opGetByIDErr  = "supportedDateFormats_ExceptionOnGetById"
	opGetOne      = "supportedDateFormats_getOne"
	opGetOneErr   = "supportedDateFormats_ExceptionOnGetOne"
	opGetMany     = "supportedDateFormats_getMany"
	opGetManyErr  = "supportedDateFormats_ExceptionOnGetMany"
)

// Config identifies the calling context on emitted audit events.
type Config struct {
	Application   string // defaults to "PLATFORM"
	Source        string // defaults to "supportedDateFormats"
	Actor         string
	ClientAddress string
}

func (c Config) withDefaults() Config {
	if c.Application == "" {
		c.Application = "PLATFORM"
	}
	if c.Source == "" {
		c.Source = "supportedDateFormats"
	}
	return c
}

// DateFormatService is the stateless facade over validator, repository and
// audit sink. Every operation resolves or fails through its error return;
// absence of a record is an empty value, never an error.
type DateFormatService struct {
	cfg       Config
	validator *schema.Validator
	repo      ports.DateFormatRepository
	audit     ports.AuditPublisher
}

func NewDateFormatService(cfg Config, validator *schema.Validator, repo ports.DateFormatRepository, audit ports.AuditPublisher) *DateFormatService {
	return &DateFormatService{
		cfg:       cfg.withDefaults(),
		validator: validator,
		repo:      repo,
		audit:     audit,
	}
}

// Validate checks a candidate record against the declared shape. A nil record
// fails with domain.ErrIllegalArgument, a shape breach with
// *domain.ErrSchemaViolation carrying every violation.
func (s *DateFormatService) Validate(ctx context.Context, rec *domain.DateFormat) error {
	if rec == nil {
		s.emit(ctx, opValidateErr, domain.AuditStatusFailure, nil, "validate called with nil record")
		return domain.ErrIllegalArgument
	}
	s.emit(ctx, opValidate, domain.AuditStatusSuccess, rec, "supportedDateFormats validation initiated")
	if err := s.validator.Validate(rec); err != nil {
		s.emit(ctx, opValidateErr, domain.AuditStatusFailure, rec, err.Error())
		return err
	}
	return nil
}

// Save validates the record and persists it. The initiated audit event fires
// before validation and is not retracted on a validation failure; a failure
// event is recorded on every failing path.
func (s *DateFormatService) Save(ctx context.Context, rec *domain.DateFormat) (domain.DateFormat, error) {
	if rec == nil {
		s.emit(ctx, opSaveErr, domain.AuditStatusFailure, nil, "save called with nil record")
		return domain.DateFormat{}, domain.ErrIllegalArgument
	}

	s.emit(ctx, opSave, domain.AuditStatusSuccess, rec, "supportedDateFormats creation initiated")

	if err := s.validator.Validate(rec); err != nil {
		s.emit(ctx, opSaveErr, domain.AuditStatusFailure, rec, err.Error())
		return domain.DateFormat{}, err
	}

	saved, err := s.repo.Save(ctx, *rec)
	if err != nil {
		s.emit(ctx, opSaveErr, domain.AuditStatusFailure, rec, err.Error())
		return domain.DateFormat{}, err
	}
	return saved, nil
}

// GetAll lists stored records. A limit below 1 means no limit; otherwise the
// result holds at most limit records, in indeterminate order.
func (s *DateFormatService) GetAll(ctx context.Context, limit int) ([]domain.DateFormat, error) {
	s.emit(ctx, opGetAll, domain.AuditStatusSuccess, fmt.Sprintf("getAll with limit %d", limit), "supportedDateFormats getAll initiated")

	records, err := s.repo.FindAll(ctx, limit)
	if err != nil {
		s.emit(ctx, opGetAllErr, domain.AuditStatusFailure, fmt.Sprintf("getAll with limit %d", limit), err.Error())
		return nil, err
	}
	return records, nil
}

// GetByID resolves a record by its store identifier. A miss resolves to the
// zero record, not an error; a malformed id fails with domain.ErrInvalidID.
func (s *DateFormatService) GetByID(ctx context.Context, id string) (domain.DateFormat, error) {
	if id == "" {
		s.emit(ctx, opGetByIDErr, domain.AuditStatusFailure, nil, "getById called with empty id")
		return domain.DateFormat{}, domain.ErrIllegalArgument
	}

	s.emit(ctx, opGetByID, domain.AuditStatusSuccess, fmt.Sprintf("id is %s", id), "supportedDateFormats getById initiated")

	rec, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.emit(ctx, opGetByIDErr, domain.AuditStatusFailure, fmt.Sprintf("id is %s", id), err.Error())
		return domain.DateFormat{}, err
	}
	if !found {
		return domain.DateFormat{}, nil
	}
	return rec, nil
}

// GetOne resolves the first record whose attribute equals value. A miss
// resolves to the zero record; store failures are surfaced.
func (s *DateFormatService) GetOne(ctx context.Context, attribute domain.Attribute, value any) (domain.DateFormat, error) {
	filter := domain.Filter{Attribute: attribute, Value: value}
	if err := filter.Validate(); err != nil {
		s.emit(ctx, opGetOneErr, domain.AuditStatusFailure, filterKeyData(filter), err.Error())
		return domain.DateFormat{}, err
	}

	s.emit(ctx, opGetOne, domain.AuditStatusSuccess, filterKeyData(filter), "supportedDateFormats getOne initiated")

	rec, found, err := s.repo.FindOne(ctx, filter)
	if err != nil {
		s.emit(ctx, opGetOneErr, domain.AuditStatusFailure, filterKeyData(filter), err.Error())
		return domain.DateFormat{}, err
	}
	if !found {
		return domain.DateFormat{}, nil
	}
	return rec, nil
}

// GetMany resolves every record whose attribute equals value. The result may
// be empty but is never nil on success.
func (s *DateFormatService) GetMany(ctx context.Context, attribute domain.Attribute, value any) ([]domain.DateFormat, error) {
	filter := domain.Filter{Attribute: attribute, Value: value}
	if err := filter.Validate(); err != nil {
		s.emit(ctx, opGetManyErr, domain.AuditStatusFailure, filterKeyData(filter), err.Error())
		return nil, err
	}

	s.emit(ctx, opGetMany, domain.AuditStatusSuccess, filterKeyData(filter), "supportedDateFormats getMany initiated")

	records, err := s.repo.FindMany(ctx, filter)
	if err != nil {
		s.emit(ctx, opGetManyErr, domain.AuditStatusFailure, filterKeyData(filter), err.Error())
		return nil, err
	}
	return records, nil
}

// emit publishes a fresh audit event. Publish failures are logged and never
// affect the primary operation.
func (s *DateFormatService) emit(ctx context.Context, name, status string, keyData any, details string) {
	if s.audit == nil {
		return
	}
	event := domain.NewAuditEvent(s.cfg.Application, s.cfg.Source, name, s.cfg.Actor, s.cfg.ClientAddress, status, keyData, details)
	if err := s.audit.Publish(ctx, event); err != nil {
		log.Printf("audit publish %s: %v", name, err)
	}
}

func filterKeyData(filter domain.Filter) string {
	return fmt.Sprintf("%s with value %v", filter.Attribute, filter.Value)
}
