package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata; validator.Validate is safe for concurrent use.
var validate = validator.New()

// ValidationError records a single structural problem in a knowledge base.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found by a validation pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct runs tag-based validation on v and converts failures into
// ValidationErrors. It returns nil when v is valid.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("schema: validate: %w", err)
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("rule %q failed (value: %v)", fieldRule(fe), fe.Value()),
		})
	}
	return out
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// Validate checks the structural integrity of kb: required fields, enum
// values, weight range, and id uniqueness within symptoms, diseases and
// rules. Dangling condition or conclusion references are not reported; the
// inference engine renders them as raw ids.
func (kb KnowledgeBase) Validate() error {
	var errs ValidationErrors
	if err := ValidateStruct(kb); err != nil {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		errs = append(errs, verrs...)
	}

	seen := make(map[string]bool, len(kb.Symptoms))
	for i, s := range kb.Symptoms {
		if s.ID != "" && seen[s.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("symptoms[%d].id", i),
				Message: fmt.Sprintf("duplicate symptom id %q", s.ID),
			})
		}
		seen[s.ID] = true
	}

	seenDisease := make(map[string]bool, len(kb.Diseases))
	seenRule := make(map[string]bool)
	for i, d := range kb.Diseases {
		if d.ID != "" && seenDisease[d.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("diseases[%d].id", i),
				Message: fmt.Sprintf("duplicate disease id %q", d.ID),
			})
		}
		seenDisease[d.ID] = true
		for j, r := range d.Rules {
			if r.ID != "" && seenRule[r.ID] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("diseases[%d].rules[%d].id", i, j),
					Message: fmt.Sprintf("duplicate rule id %q", r.ID),
				})
			}
			seenRule[r.ID] = true
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
