package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RecipientPreset is the payment recipient used by the sandbox demo
// flow. A YAML file may override the built-in sandbox default.
type RecipientPreset struct {
	Name    string           `yaml:"name" validate:"required"`
	IBAN    string           `yaml:"iban" validate:"required"`
	Address RecipientAddress `yaml:"address" validate:"required"`
}

type RecipientAddress struct {
	Street     []string `yaml:"street" validate:"required,min=1"`
	City       string   `yaml:"city" validate:"required"`
	PostalCode string   `yaml:"postal_code" validate:"required"`
	Country    string   `yaml:"country" validate:"required,len=2"`
}

// DefaultRecipientPreset matches the account the sandbox environment
// accepts out of the box.
func DefaultRecipientPreset() RecipientPreset {
	return RecipientPreset{
		Name: "Harry Potter",
		IBAN: "GB33BUKB20201555555555",
		Address: RecipientAddress{
			Street:     []string{"4 Privet Drive"},
			City:       "Little Whinging",
			PostalCode: "11111",
			Country:    "GB",
		},
	}
}

// LoadRecipientPreset reads a recipient preset file. An empty path
// yields the built-in default.
func LoadRecipientPreset(path string) (*RecipientPreset, error) {
	if path == "" {
		preset := DefaultRecipientPreset()
		return &preset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipient preset: %w", err)
	}

	var preset RecipientPreset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("unmarshal recipient preset: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(preset); err != nil {
		return nil, fmt.Errorf("validate recipient preset: %w", err)
	}

	return &preset, nil
}
