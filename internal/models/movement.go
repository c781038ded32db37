package models

import "strings"

// MovementType describes how an exercise is loaded.
type MovementType string

const (
	MovementStrength   MovementType = "strength"
	MovementBodyweight MovementType = "bodyweight"
	MovementCardio     MovementType = "cardio"
	MovementIsometric  MovementType = "isometric"
)

// RequiresLoad reports whether sets of this type need an external weight.
func (m MovementType) RequiresLoad() bool {
	return m == MovementStrength
}

func (m MovementType) valid() bool {
	switch m {
	case MovementStrength, MovementBodyweight, MovementCardio, MovementIsometric:
		return true
	}
	return false
}

// MovementPattern groups exercises for imbalance analysis.
type MovementPattern string

const (
	PatternPush  MovementPattern = "push"
	PatternPull  MovementPattern = "pull"
	PatternSquat MovementPattern = "squat"
	PatternHinge MovementPattern = "hinge"
	PatternCore  MovementPattern = "core"
	PatternOther MovementPattern = "other"
)

type typeRule struct {
	keyword string
	typ     MovementType
}

type patternRule struct {
	keyword string
	pattern MovementPattern
}

// Classifier resolves movement types and patterns from exercise names.
// Upstream exercise generation is unreliable about tagging, so name keywords
// act as a secondary classification when the template tag is missing or
// contradicted. The rule tables are injectable for testing and tuning.
type Classifier struct {
	typeRules    []typeRule
	patternRules []patternRule
}

// NewClassifier returns a classifier with the default keyword tables.
func NewClassifier() *Classifier {
	return &Classifier{
		typeRules: []typeRule{
			{"plank", MovementIsometric},
			{"wall sit", MovementIsometric},
			{"hold", MovementIsometric},
			{"run", MovementCardio},
			{"sprint", MovementCardio},
			{"bike", MovementCardio},
			{"cycling", MovementCardio},
			{"treadmill", MovementCardio},
			{"jump rope", MovementCardio},
			{"rowing machine", MovementCardio},
			{"push-up", MovementBodyweight},
			{"pushup", MovementBodyweight},
			{"push up", MovementBodyweight},
			{"pull-up", MovementBodyweight},
			{"pullup", MovementBodyweight},
			{"pull up", MovementBodyweight},
			{"chin-up", MovementBodyweight},
			{"chinup", MovementBodyweight},
			{"dip", MovementBodyweight},
			{"crunch", MovementBodyweight},
			{"sit-up", MovementBodyweight},
			{"burpee", MovementBodyweight},
			{"leg raise", MovementBodyweight},
			{"air squat", MovementBodyweight},
		},
		patternRules: []patternRule{
			// Order matters: more specific entries come first.
			{"deadlift", PatternHinge},
			{"romanian", PatternHinge},
			{"rdl", PatternHinge},
			{"hip thrust", PatternHinge},
			{"good morning", PatternHinge},
			{"glute bridge", PatternHinge},
			{"swing", PatternHinge},
			{"squat", PatternSquat},
			{"lunge", PatternSquat},
			{"leg press", PatternSquat},
			{"step-up", PatternSquat},
			{"step up", PatternSquat},
			{"leg extension", PatternSquat},
			{"plank", PatternCore},
			{"crunch", PatternCore},
			{"sit-up", PatternCore},
			{"leg raise", PatternCore},
			{"rollout", PatternCore},
			{"russian twist", PatternCore},
			{"pulldown", PatternPull},
			{"pull-up", PatternPull},
			{"pullup", PatternPull},
			{"pull up", PatternPull},
			{"chin-up", PatternPull},
			{"chinup", PatternPull},
			{"row", PatternPull},
			{"curl", PatternPull},
			{"face pull", PatternPull},
			{"shrug", PatternPull},
			{"bench", PatternPush},
			{"press", PatternPush},
			{"push", PatternPush},
			{"dip", PatternPush},
			{"fly", PatternPush},
			{"flye", PatternPush},
			{"extension", PatternPush}, // triceps extensions; leg extension matched above
		},
	}
}

// ResolveType returns the effective movement type for an exercise.
// An explicit non-strength tag is trusted. Missing or "strength" tags run
// through the keyword table, since generated plans default everything to
// strength; unmatched names fall back to strength.
func (c *Classifier) ResolveType(ex Exercise) MovementType {
	if ex.Type.valid() && ex.Type != MovementStrength {
		return ex.Type
	}
	name := normalizeName(ex.Name)
	for _, r := range c.typeRules {
		if strings.Contains(name, r.keyword) {
			return r.typ
		}
	}
	return MovementStrength
}

// Pattern returns the movement pattern for an exercise name.
func (c *Classifier) Pattern(name string) MovementPattern {
	n := normalizeName(name)
	for _, r := range c.patternRules {
		if strings.Contains(n, r.keyword) {
			return r.pattern
		}
	}
	return PatternOther
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
