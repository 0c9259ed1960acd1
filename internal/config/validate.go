package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			return mapstructureName(f.Tag.Get("mapstructure"), f.Name)
		})
	})
	return structValidator
}

// FieldError describes one invalid configuration key.
type FieldError struct {
	Key   string
	Rule  string
	Param string
	Value any
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	switch e.Rule {
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %v", e.Key, e.Param, e.Value)
	case "eq":
		return fmt.Sprintf("unsupported config %s: %v", e.Key, e.Value)
	case "gte", "gt", "lte":
		return fmt.Sprintf("%s: must be %s %s, got %v", e.Key, e.Rule, e.Param, e.Value)
	case "startswith":
		return fmt.Sprintf("%s: must start with %q, got %v", e.Key, e.Param, e.Value)
	default:
		return fmt.Sprintf("%s: failed %q validation, got %v", e.Key, e.Rule, e.Value)
	}
}

// ValidationError aggregates every FieldError of one config.
type ValidationError struct {
	Errs []error
}

// Error joins the field messages.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{errors.Wrap(err, "validating config")}
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &FieldError{
			Key:   fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:],
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return errs
}

func mapstructureName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
