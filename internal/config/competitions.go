package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Competition is one league the daily run pulls fixtures for.
// Weight is multiplied into every market value of the competition's matches.
type Competition struct {
	Name   string  `yaml:"name" json:"name" validate:"required"`
	Code   string  `yaml:"code" json:"code" validate:"required,alphanum,max=8"`
	Weight float64 `yaml:"weight" json:"weight" default:"1.0" validate:"gt=0,lte=2"`
}

// DefaultCompetitions returns the built-in league list, in fetch order.
func DefaultCompetitions() []Competition {
	return []Competition{
		{Name: "Champions League", Code: "CL", Weight: 1.08},
		{Name: "Premier League", Code: "PL", Weight: 1.05},
		{Name: "La Liga", Code: "PD", Weight: 1.03},
		{Name: "Serie A", Code: "SA", Weight: 1.04},
		{Name: "Bundesliga", Code: "BL1", Weight: 1.04},
		{Name: "Ligue 1", Code: "FL1", Weight: 1.02},
		{Name: "Eredivisie", Code: "DED", Weight: 0.98},
		{Name: "Primeira Liga", Code: "PPL", Weight: 1.00},
		{Name: "Championship", Code: "ELC", Weight: 1.01},
		{Name: "Brasileirão Série A", Code: "BSA", Weight: 1.00},
	}
}

type competitionsFile struct {
	Competitions []Competition `yaml:"competitions" validate:"required,min=1,dive"`
}

// LoadCompetitions reads a YAML competitions file:
//
//	competitions:
//	  - name: Premier League
//	    code: PL
//	    weight: 1.05
func LoadCompetitions(path string) ([]Competition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read competitions: %w", err)
	}
	return ParseCompetitions(b)
}

// ParseCompetitions decodes, defaults and validates a competitions document.
func ParseCompetitions(b []byte) ([]Competition, error) {
	var f competitionsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse competitions: %w", err)
	}
	for i := range f.Competitions {
		if err := defaults.Set(&f.Competitions[i]); err != nil {
			return nil, fmt.Errorf("default competition %d: %w", i, err)
		}
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate competitions: %w", err)
	}

	seen := make(map[string]bool, len(f.Competitions))
	for _, c := range f.Competitions {
		if seen[c.Code] {
			return nil, fmt.Errorf("validate competitions: duplicate code %q", c.Code)
		}
		seen[c.Code] = true
	}
	return f.Competitions, nil
}
