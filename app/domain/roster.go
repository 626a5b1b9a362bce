package domain

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DemoDefaultPassword is the password given to every seeded demo account
const DemoDefaultPassword = "Portal@Demo2024"

// DemoAccountSpec describes one roster entry
type DemoAccountSpec struct {
	Email       string `yaml:"email" json:"email" validate:"required,email"`
	Name        string `yaml:"name" json:"name" validate:"required"`
	Role        Role   `yaml:"role" json:"role" validate:"required,role"`
	Designation string `yaml:"designation" json:"designation"`
	Department  string `yaml:"department" json:"department"`
}

//go:embed roster.yaml
var rosterYAML []byte

var demoRoster = mustParseRoster(rosterYAML)

// Roster returns the compiled-in demo accounts in provisioning order
func Roster() []DemoAccountSpec {
	out := make([]DemoAccountSpec, len(demoRoster))
	copy(out, demoRoster)
	return out
}

// ParseRoster decodes and validates a roster document
func ParseRoster(data []byte) ([]DemoAccountSpec, error) {
	var doc struct {
		Accounts []DemoAccountSpec `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	if len(doc.Accounts) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	validate := validator.New()
	if err := validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	}); err != nil {
		return nil, fmt.Errorf("failed to register role validation: %w", err)
	}

	seen := make(map[string]int, len(doc.Accounts))
	for i, spec := range doc.Accounts {
		if err := validate.Struct(spec); err != nil {
			return nil, fmt.Errorf("roster entry %d: %w", i, err)
		}
		key := strings.ToLower(spec.Email)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("roster entry %d: email %s duplicates entry %d", i, spec.Email, prev)
		}
		seen[key] = i
	}

	return doc.Accounts, nil
}

func mustParseRoster(data []byte) []DemoAccountSpec {
	roster, err := ParseRoster(data)
	if err != nil {
		panic(err)
	}
	return roster
}
