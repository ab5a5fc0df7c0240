package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sproutworks/furrow/pkg/errors"
)

// Strategy names for persona purchase behavior.
const (
	// StrategyCheapest always buys the cheapest affordable unlock.
	StrategyCheapest = "cheapest"
	// StrategyBestValue buys the affordable unlock with the highest
	// income per cost.
	StrategyBestValue = "best_value"
	// StrategyRandom picks uniformly among affordable unlocks, seeded
	// per run.
	StrategyRandom = "random"
)

// Persona is one player archetype.
type Persona struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Efficiency is the fraction of theoretical income the player
	// actually banks, in (0, 1]. A casual player leaves production idle;
	// an optimizer collects everything.
	Efficiency float64 `yaml:"efficiency" json:"efficiency"`

	// Strategy selects among affordable unlocks each tick.
	Strategy string `yaml:"strategy" json:"strategy"`
}

// Validate checks the persona for usable values.
func (p Persona) Validate() error {
	if err := errors.ValidatePersonaName(p.Name); err != nil {
		return err
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return errors.New(errors.ErrCodeInvalidPersona,
			"persona %s: efficiency must be in (0, 1], got %v", p.Name, p.Efficiency)
	}
	switch p.Strategy {
	case StrategyCheapest, StrategyBestValue, StrategyRandom:
	default:
		return errors.New(errors.ErrCodeInvalidPersona,
			"persona %s: unknown strategy %q", p.Name, p.Strategy)
	}
	return nil
}

// DefaultPersonas returns the built-in archetypes used when no persona
// file is supplied.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:        "casual",
			Description: "Checks in occasionally, buys whatever is cheap",
			Efficiency:  0.35,
			Strategy:    StrategyCheapest,
		},
		{
			Name:        "optimizer",
			Description: "Plays efficiently and always chases income",
			Efficiency:  0.9,
			Strategy:    StrategyBestValue,
		},
		{
			Name:        "wanderer",
			Description: "Unlocks in no particular order",
			Efficiency:  0.6,
			Strategy:    StrategyRandom,
		},
	}
}

// personaFile is the YAML document shape for persona definitions.
type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadPersonas reads persona definitions from a YAML file:
//
//	personas:
//	  - name: casual
//	    description: Checks in twice a day
//	    efficiency: 0.35
//	    strategy: cheapest
//
// Every persona is validated; the first invalid one fails the load.
func LoadPersonas(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas %s: %w", path, err)
	}

	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse personas %s: %w", path, err)
	}
	if len(file.Personas) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPersona, "%s: no personas defined", path)
	}

	seen := make(map[string]bool, len(file.Personas))
	for _, p := range file.Personas {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, errors.New(errors.ErrCodeInvalidPersona, "%s: duplicate persona %q", path, p.Name)
		}
		seen[p.Name] = true
	}
	return file.Personas, nil
}

// FindPersona returns the persona with the given name from personas, or an
// error carrying ErrCodePersonaNotFound.
func FindPersona(personas []Persona, name string) (Persona, error) {
	for _, p := range personas {
		if p.Name == name {
			return p, nil
		}
	}
	return Persona{}, errors.New(errors.ErrCodePersonaNotFound, "persona %q not found", name)
}
