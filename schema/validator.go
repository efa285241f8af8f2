package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/evolvus/dateformats/domain"
)

// Validator checks candidate records against the declared shape. It is
// stateless once built and safe for concurrent use. Uniqueness of formatCode
// is not checked here; that is the store's job.
type Validator struct {
	compiled *santhosh.Schema
}

// NewValidator compiles the embedded schema document.
func NewValidator() (*Validator, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	if err := compiler.AddResource("dateformat.schema.json", bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("dateformat.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate checks a candidate record. A nil candidate fails with
// domain.ErrIllegalArgument; a shape breach fails with
// *domain.ErrSchemaViolation listing every violated constraint.
func (v *Validator) Validate(rec *domain.DateFormat) error {
	if rec == nil {
		return domain.ErrIllegalArgument
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	return v.ValidateJSON(raw)
}

// ValidateJSON checks an untyped JSON candidate against the declared shape.
func (v *Validator) ValidateJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return domain.ErrIllegalArgument
	}
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return fmt.Errorf("unmarshal candidate: %w", err)
	}
	if err := v.compiled.Validate(candidate); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			return &domain.ErrSchemaViolation{Violations: collectViolations(ve)}
		}
		return &domain.ErrSchemaViolation{Violations: []string{err.Error()}}
	}
	return nil
}

func collectViolations(ve *santhosh.ValidationError) []string {
	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, collectViolations(cause)...)
	}
	if len(ve.Causes) == 0 {
		msgs = append(msgs, ve.Error())
	}
	return msgs
}
