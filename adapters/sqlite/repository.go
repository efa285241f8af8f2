// Package sqlite implements the date format repository on the SQLite record
// store. The store assigns record ids and is the second line of defense for
// formatCode uniqueness and required-field presence.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/evolvus/dateformats/adapters/sqlite/gormsqlite"
	"github.com/evolvus/dateformats/domain"
)

type dateFormatModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	TenantID        string    `gorm:"column:tenant_id;not null"`
	FormatCode      string    `gorm:"column:format_code;not null;unique"`
	TimeFormat      string    `gorm:"column:time_format"`
	Description     string    `gorm:"column:description"`
	CreatedDate     string    `gorm:"column:created_date"`
	LastUpdatedDate string    `gorm:"column:last_updated_date"`
	CreatedBy       string    `gorm:"column:created_by"`
	UpdatedBy       string    `gorm:"column:updated_by"`
	ObjVersion      float64   `gorm:"column:obj_version"`
	EnabledFlag     string    `gorm:"column:enabled_flag;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (dateFormatModel) TableName() string {
	return "supported_date_formats"
}

// attrColumns maps declared attribute names to store columns. Filters are
// validated against the declared shape before they reach this table, so a
// missing entry here is a programming error, not caller input.
var attrColumns = map[domain.Attribute]string{
	domain.AttrID:              "id",
	domain.AttrTenantID:        "tenant_id",
	domain.AttrFormatCode:      "format_code",
	domain.AttrTimeFormat:      "time_format",
	domain.AttrDescription:     "description",
	domain.AttrCreatedDate:     "created_date",
	domain.AttrLastUpdatedDate: "last_updated_date",
	domain.AttrCreatedBy:       "created_by",
	domain.AttrUpdatedBy:       "updated_by",
	domain.AttrObjVersion:      "obj_version",
	domain.AttrEnabledFlag:     "enabled_flag",
}

type Repository struct {
	db *gormsqlite.DB
}

func NewRepository(db *gormsqlite.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, rec domain.DateFormat) (domain.DateFormat, error) {
	now := time.Now().UTC()
	model := toModel(rec)
	model.ID = uuid.NewString()
	if model.EnabledFlag == "" {
		model.EnabledFlag = domain.FlagEnabled
	}
	model.CreatedAt = now
	model.UpdatedAt = now

	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return domain.DateFormat{}, &domain.ErrConstraintViolation{Cause: err}
		}
		return domain.DateFormat{}, fmt.Errorf("save date format: %w", err)
	}

	return toDomain(model), nil
}

func (r *Repository) FindAll(ctx context.Context, limit int) ([]domain.DateFormat, error) {
	var models []dateFormatModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&dateFormatModel{})
		if limit >= 1 {
			query = query.Limit(limit)
		}
		return query.Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find all date formats: %w", err)
	}
	return toDomainSlice(models), nil
}

func (r *Repository) FindOne(ctx context.Context, filter domain.Filter) (domain.DateFormat, bool, error) {
	column, err := filterColumn(filter)
	if err != nil {
		return domain.DateFormat{}, false, err
	}

	var model dateFormatModel
	err = r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where(column+" = ?", filter.Value).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DateFormat{}, false, nil
		}
		return domain.DateFormat{}, false, fmt.Errorf("find one date format: %w", err)
	}
	return toDomain(model), true, nil
}

func (r *Repository) FindMany(ctx context.Context, filter domain.Filter) ([]domain.DateFormat, error) {
	column, err := filterColumn(filter)
	if err != nil {
		return nil, err
	}

	var models []dateFormatModel
	err = r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where(column+" = ?", filter.Value).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("find many date formats: %w", err)
	}
	return toDomainSlice(models), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (domain.DateFormat, bool, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.DateFormat{}, false, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}

	var model dateFormatModel
	err = r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", parsed.String()).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DateFormat{}, false, nil
		}
		return domain.DateFormat{}, false, fmt.Errorf("find date format by id: %w", err)
	}
	return toDomain(model), true, nil
}

func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("1 = 1").Delete(&dateFormatModel{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete all date formats: %w", err)
	}
	return affected, nil
}

func filterColumn(filter domain.Filter) (string, error) {
	if err := filter.Validate(); err != nil {
		return "", err
	}
	column, ok := attrColumns[filter.Attribute]
	if !ok {
		return "", fmt.Errorf("%w: unknown attribute %q", domain.ErrIllegalArgument, filter.Attribute)
	}
	return column, nil
}

// isConstraintViolation recognizes uniqueness, NOT NULL and CHECK breaches
// reported by the sqlite driver.
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "NOT NULL constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "constraint failed")
}

func toModel(rec domain.DateFormat) dateFormatModel {
	return dateFormatModel{
		ID:              rec.ID,
		TenantID:        rec.TenantID,
		FormatCode:      rec.FormatCode,
		TimeFormat:      rec.TimeFormat,
		Description:     rec.Description,
		CreatedDate:     rec.CreatedDate,
		LastUpdatedDate: rec.LastUpdatedDate,
		CreatedBy:       rec.CreatedBy,
		UpdatedBy:       rec.UpdatedBy,
		ObjVersion:      rec.ObjVersion,
		EnabledFlag:     rec.EnabledFlag,
	}
}

func toDomain(model dateFormatModel) domain.DateFormat {
	return domain.DateFormat{
		ID:              model.ID,
		TenantID:        model.TenantID,
		FormatCode:      model.FormatCode,
		TimeFormat:      model.TimeFormat,
		Description:     model.Description,
		CreatedDate:     model.CreatedDate,
		LastUpdatedDate: model.LastUpdatedDate,
		CreatedBy:       model.CreatedBy,
		UpdatedBy:       model.UpdatedBy,
		ObjVersion:      model.ObjVersion,
		EnabledFlag:     model.EnabledFlag,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toDomainSlice(models []dateFormatModel) []domain.DateFormat {
	records := make([]domain.DateFormat, 0, len(models))
	for _, model := range models {
		records = append(records, toDomain(model))
	}
	return records
}
