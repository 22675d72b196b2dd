package leaderboarddomain

import "strings"

// ModifiersMap is the per-modifier score multiplier table. Negative values
// are penalties, positive values are bonuses.
type ModifiersMap struct {
	DA float64 `json:"da"`
	FS float64 `json:"fs"`
	SF float64 `json:"sf"`
	SS float64 `json:"ss"`
	GN float64 `json:"gn"`
	NA float64 `json:"na"`
	NB float64 `json:"nb"`
	NF float64 `json:"nf"`
	NO float64 `json:"no"`
	PM float64 `json:"pm"`
	SC float64 `json:"sc"`
	SA float64 `json:"sa"`
	OP float64 `json:"op"`
}

// DefaultModifiers is used when a difficulty carries no table of its own.
func DefaultModifiers() ModifiersMap {
	return ModifiersMap{
		FS: 0.20,
		SF: 0.36,
		SS: -0.30,
		GN: 0.04,
		NA: -0.30,
		NB: -0.20,
		NF: -1.00,
		NO: -0.20,
		OP: -0.50,
	}
}

func (m ModifiersMap) value(token string) (float64, bool) {
	switch token {
	case "DA":
		return m.DA, true
	case "FS":
		return m.FS, true
	case "SF":
		return m.SF, true
	case "SS":
		return m.SS, true
	case "GN":
		return m.GN, true
	case "NA":
		return m.NA, true
	case "NB":
		return m.NB, true
	case "NF":
		return m.NF, true
	case "NO":
		return m.NO, true
	case "PM":
		return m.PM, true
	case "SC":
		return m.SC, true
	case "SA":
		return m.SA, true
	case "OP":
		return m.OP, true
	}
	return 0, false
}

// ParseModifiers splits a comma-separated modifier list into upper-case
// tokens, dropping blanks and duplicates.
func ParseModifiers(modifiers string) []string {
	if modifiers == "" {
		return nil
	}
	var tokens []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(modifiers, ",") {
		token := strings.ToUpper(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// NegativeMultiplier applies only the penalties of the given modifiers.
func (m ModifiersMap) NegativeMultiplier(modifiers string) float64 {
	multiplier := 1.0
	for _, token := range ParseModifiers(modifiers) {
		if v, ok := m.value(token); ok && v < 0 {
			multiplier += v
		}
	}
	return multiplier
}

// TotalMultiplier applies penalties and, when allowPositive is set, bonuses.
func (m ModifiersMap) TotalMultiplier(modifiers string, allowPositive bool) float64 {
	multiplier := 1.0
	for _, token := range ParseModifiers(modifiers) {
		v, ok := m.value(token)
		if !ok {
			continue
		}
		if v < 0 || allowPositive {
			multiplier += v
		}
	}
	return multiplier
}

// Ratings are the three difficulty axes pp is derived from.
type Ratings struct {
	Acc  float64 `json:"acc"`
	Pass float64 `json:"pass"`
	Tech float64 `json:"tech"`
}

// ModifiersRating holds dedicated ratings for the speed modifiers. When a
// score uses one of them these ratings replace the base ratings.
type ModifiersRating struct {
	SS Ratings `json:"ss"`
	FS Ratings `json:"fs"`
	SF Ratings `json:"sf"`
}

// ForModifiers returns the override for the first speed modifier present.
func (r *ModifiersRating) ForModifiers(modifiers string) (Ratings, bool) {
	if r == nil {
		return Ratings{}, false
	}
	for _, token := range ParseModifiers(modifiers) {
		switch token {
		case "SS":
			return r.SS, true
		case "FS":
			return r.FS, true
		case "SF":
			return r.SF, true
		}
	}
	return Ratings{}, false
}
