package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Default(t *testing.T) {
	assert.Empty(t, Validate(Default()))
}

func TestValidate_Nil(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "config is nil", errs[0].Error())
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
		wantTag string
	}{
		{"zero part size", func(c *Config) { c.MaxPartSize = 0 }, "max_part_size", "gt"},
		{"too many workers", func(c *Config) { c.Workers = 1000 }, "workers", "lte"},
		{"lowercase rule id", func(c *Config) { c.DisabledRules = []string{"sem001"} }, "disabled_rules[0]", "uppercase"},
		{"empty rule id", func(c *Config) { c.DisabledRules = []string{""} }, "disabled_rules[0]", "required"},
		{"extension with slash", func(c *Config) { c.Extension = "./docx" }, "extension", "excludesall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := Validate(cfg)
			require.Len(t, errs, 1)

			var fe *FieldError
			require.ErrorAs(t, errs[0], &fe)
			assert.Equal(t, tt.wantKey, fe.Key)
			assert.Equal(t, tt.wantTag, fe.Rule)
		})
	}
}

func TestValidationError_JoinsMessages(t *testing.T) {
	cfg := Default()
	cfg.Version = 3
	cfg.Format = "xml"

	err := &ValidationError{Errs: Validate(cfg)}
	assert.Equal(t, "unsupported config version: 3; format: must be one of [text json yaml], got xml", err.Error())
}
