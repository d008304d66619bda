package model

import (
	"github.com/rotisserie/eris"
)

// ValueField selects which numeric column of an observation a transform reads.
type ValueField string

const (
	FieldMean      ValueField = "mean" // Posterior mean estimate
	FieldPerCapita ValueField = "pc"   // Per-capita estimate
)

// ParseValueField validates a value field name.
func ParseValueField(s string) (ValueField, error) {
	switch ValueField(s) {
	case FieldMean, FieldPerCapita:
		return ValueField(s), nil
	default:
		return "", eris.Errorf("model: unknown value field %q (want %q or %q)", s, FieldMean, FieldPerCapita)
	}
}

// Observation is one long-format row: a single estimate for a state, model
// (spending category) and year.
type Observation struct {
	Region     string  `json:"region"`
	State      string  `json:"state_name"`
	LocationID int     `json:"location_id,omitempty"`
	Year       int     `json:"year_id"`
	Model      string  `json:"model"`
	Mean       float64 `json:"mean"`
	Lower      float64 `json:"lower,omitempty"`
	Upper      float64 `json:"upper,omitempty"`
	PerCapita  float64 `json:"pc,omitempty"`
	Population float64 `json:"population,omitempty"`
}

// Value returns the field selected by f.
func (o Observation) Value(f ValueField) float64 {
	if f == FieldPerCapita {
		return o.PerCapita
	}
	return o.Mean
}

// WithValue returns a copy of o with the field selected by f set to v.
func (o Observation) WithValue(f ValueField, v float64) Observation {
	if f == FieldPerCapita {
		o.PerCapita = v
	} else {
		o.Mean = v
	}
	return o
}

// Predicate reports whether an observation should be kept.
type Predicate func(Observation) bool

// ForYear keeps observations for a single year.
func ForYear(year int) Predicate {
	return func(o Observation) bool { return o.Year == year }
}

// ForModels keeps observations whose model is in models.
func ForModels(models ...string) Predicate {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[m] = struct{}{}
	}
	return func(o Observation) bool {
		_, ok := set[o.Model]
		return ok
	}
}

// All combines predicates with logical AND.
func All(preds ...Predicate) Predicate {
	return func(o Observation) bool {
		for _, p := range preds {
			if !p(o) {
				return false
			}
		}
		return true
	}
}

// Filter returns the observations matching pred in input order.
func Filter(obs []Observation, pred Predicate) []Observation {
	var out []Observation
	for _, o := range obs {
		if pred(o) {
			out = append(out, o)
		}
	}
	return out
}

// Distinct returns the distinct values of key over obs in first-seen order.
func Distinct(obs []Observation, key func(Observation) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, o := range obs {
		k := key(o)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// StateOf and ModelOf are key functions for Distinct.
func StateOf(o Observation) string { return o.State }

func ModelOf(o Observation) string { return o.Model }
