package domain

import (
	"fmt"
	"strings"

	apperrors "timeledger/internal/platform/errors"
)

type Category string

const (
	CategoryBasic        Category = "basic_python"
	CategoryIntermediate Category = "intermediate_python"
	CategoryAdvanced     Category = "advanced_python"
	CategoryBackend      Category = "backend_development"
	CategorySetup        Category = "setup_debugging"
)

// Categories lists the closed set in report order.
var Categories = []Category{
	CategoryBasic,
	CategoryIntermediate,
	CategoryAdvanced,
	CategoryBackend,
	CategorySetup,
}

var categoryLabels = map[Category]string{
	CategoryBasic:        "Basic Python (Q1-Q5)",
	CategoryIntermediate: "Intermediate Python (Q6-Q10)",
	CategoryAdvanced:     "Advanced Python (Q11-Q15)",
	CategoryBackend:      "Backend Development (Q16-Q20)",
	CategorySetup:        "Setup & Debugging",
}

var categoryAliases = map[string]Category{
	"basic":        CategoryBasic,
	"intermediate": CategoryIntermediate,
	"advanced":     CategoryAdvanced,
	"backend":      CategoryBackend,
	"setup":        CategorySetup,
}

// ParseCategory accepts a canonical name or its short alias.
func ParseCategory(raw string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := categoryAliases[name]; ok {
		return c, nil
	}
	c := Category(name)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Category) Validate() error {
	if _, ok := categoryLabels[c]; !ok {
		return fmt.Errorf("%w: %q", apperrors.ErrUnknownCategory, string(c))
	}
	return nil
}

func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Alias returns the short command-line name.
func (c Category) Alias() string {
	for alias, category := range categoryAliases {
		if category == c {
			return alias
		}
	}
	return string(c)
}
