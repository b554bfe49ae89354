// Package model contains domain models passed between layers.
package model

import (
	"strconv"
	"strings"
)

// Record represents a single meet entry as read from the source.
// Numeric columns keep their raw source text; interpretation happens
// at ranking time via Numeric.
type Record struct {
	Name        string // athlete name, identity component
	Sex         string // identity component
	Division    string // competitive division, e.g. "Open", "M1"
	WeightClass string // weight-class label, not necessarily numeric
	Bodyweight  string // raw bodyweight text
	Squat       string // raw Best3SquatKg text
	Bench       string // raw Best3BenchKg text
	Deadlift    string // raw Best3DeadliftKg text
	Total       string // raw TotalKg text
	Place       string // raw placement, may be "NS" or similar
}

// Identity identifies an athlete across divisions: (name, sex),
// case-sensitive after trimming.
type Identity struct {
	Name string
	Sex  string
}

// Identity returns the athlete identity for the record.
func (r Record) Identity() Identity {
	return Identity{
		Name: strings.TrimSpace(r.Name),
		Sex:  strings.TrimSpace(r.Sex),
	}
}

// Complete reports whether the record carries all identity fields
// required for deduplication and grouping.
func (r Record) Complete() bool {
	return strings.TrimSpace(r.Name) != "" &&
		strings.TrimSpace(r.Sex) != "" &&
		strings.TrimSpace(r.Division) != ""
}

// Placed reports whether the Place field is a non-negative integer
// string. No-shows and disqualifications ("NS", "DQ") are not placed.
func (r Record) Placed() bool {
	n, err := strconv.Atoi(strings.TrimSpace(r.Place))
	return err == nil && n >= 0
}

// Cohort is the grouping key for leaderboards: (sex, weight class,
// division), verbatim after trimming.
type Cohort struct {
	Sex         string
	WeightClass string
	Division    string
}

// Cohort returns the grouping key for the record.
func (r Record) Cohort() Cohort {
	return Cohort{
		Sex:         strings.TrimSpace(r.Sex),
		WeightClass: strings.TrimSpace(r.WeightClass),
		Division:    strings.TrimSpace(r.Division),
	}
}

// Metric names a ranked performance value.
type Metric string

// Metrics in their fixed display order.
const (
	Squat    Metric = "squat"
	Bench    Metric = "bench"
	Deadlift Metric = "deadlift"
	Total    Metric = "total"
)

// Metrics returns all metrics in display order.
func Metrics() []Metric {
	return []Metric{Squat, Bench, Deadlift, Total}
}

// Column returns the source column name for the metric.
func (m Metric) Column() string {
	switch m {
	case Squat:
		return "Best3SquatKg"
	case Bench:
		return "Best3BenchKg"
	case Deadlift:
		return "Best3DeadliftKg"
	case Total:
		return "TotalKg"
	default:
		return string(m)
	}
}

// Value returns the record's raw text for the metric.
func (r Record) Value(m Metric) string {
	switch m {
	case Squat:
		return r.Squat
	case Bench:
		return r.Bench
	case Deadlift:
		return r.Deadlift
	case Total:
		return r.Total
	default:
		return ""
	}
}

// Numeric is the named zero-fallback parse used everywhere a raw field
// feeds a comparison: unparseable or missing values count as 0.
func Numeric(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}
