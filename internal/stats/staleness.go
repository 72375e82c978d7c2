package stats

import (
	"fmt"
	"time"
)

// StalenessPolicy decides whether an aggregate computed at last can still be
// served at now.
type StalenessPolicy interface {
	Fresh(last, now time.Time) bool
}

const DefaultDayThreshold = 7

// DayOfMonthPolicy compares calendar days of the month, not elapsed time:
// an aggregate is fresh while now.Day()-last.Day() < Threshold. Across a
// month boundary the difference goes negative and the aggregate stays fresh.
type DayOfMonthPolicy struct {
	Threshold int
}

func (p DayOfMonthPolicy) Fresh(last, now time.Time) bool {
	return now.UTC().Day()-last.UTC().Day() < p.Threshold
}

// ElapsedPolicy keeps an aggregate fresh for MaxAge of wall-clock time.
type ElapsedPolicy struct {
	MaxAge time.Duration
}

func (p ElapsedPolicy) Fresh(last, now time.Time) bool {
	return now.Sub(last) < p.MaxAge
}

const (
	StalenessModeDayOfMonth = "day_of_month"
	StalenessModeElapsed    = "elapsed"
)

// NewStalenessPolicy builds the policy named by mode. threshold is a day
// count for both modes.
func NewStalenessPolicy(mode string, threshold int) (StalenessPolicy, error) {
	switch mode {
	case "", StalenessModeDayOfMonth:
		return DayOfMonthPolicy{Threshold: threshold}, nil
	case StalenessModeElapsed:
		return ElapsedPolicy{MaxAge: time.Duration(threshold) * 24 * time.Hour}, nil
	default:
		return nil, fmt.Errorf("unknown staleness mode %q", mode)
	}
}
