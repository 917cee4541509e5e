package circadian

import (
	"fmt"

	"github.com/AndDavies/rooted-companion/internal"
)

// Self-identification values accepted on the onboarding screener.
const (
	SelfIDMorning = "morning"
	SelfIDNeither = "neither"
	SelfIDEvening = "evening"
)

const caffeineCutoffLeadMin = 8 * 60

// sleepMidpoint returns the clock minute halfway through the sleep period
// that starts at onsetMin and ends at wakeMin. A wake time at or before the
// onset is taken to be on the next calendar day.
func sleepMidpoint(onsetMin, wakeMin int) int {
	if wakeMin <= onsetMin {
		wakeMin += minutesPerDay
	}
	return (onsetMin + (wakeMin-onsetMin)/2) % minutesPerDay
}

// midpointBias maps a sleep midpoint to the chronotype it leans toward.
// Band edges are deliberate and literal: 01:00–03:00 inclusive leans lark,
// 06:00 onward leans owl, everything else (including the 03:00–06:00 gap)
// is neutral.
func midpointBias(midpointMin int) internal.Chronotype {
	switch {
	case midpointMin >= 60 && midpointMin <= 180:
		return internal.ChronotypeLark
	case midpointMin >= 360:
		return internal.ChronotypeOwl
	default:
		return internal.ChronotypeNeutral
	}
}

// DeriveChronotype classifies a screener into lark, neutral or owl. A
// morning or evening self-report wins outright; only a "neither" answer
// falls through to sleep-midpoint banding.
func DeriveChronotype(s internal.Screener) (internal.Chronotype, error) {
	switch s.SelfID {
	case SelfIDMorning:
		return internal.ChronotypeLark, nil
	case SelfIDEvening:
		return internal.ChronotypeOwl, nil
	case SelfIDNeither:
	default:
		return "", fmt.Errorf("circadian: unknown self identification %q", s.SelfID)
	}

	wake, err := ParseHHMM(s.WakeTime)
	if err != nil {
		return "", err
	}
	bed, err := ParseHHMM(s.Bedtime)
	if err != nil {
		return "", err
	}
	return midpointBias(sleepMidpoint(bed, wake)), nil
}

// ComputeCaffeineCutoff returns the last recommended caffeine time: eight
// hours before bed, wrapped across midnight. Defined for every bedtime,
// independent of chronotype.
func ComputeCaffeineCutoff(bedtime string) (string, error) {
	bed, err := ParseHHMM(bedtime)
	if err != nil {
		return "", err
	}
	return ToHHMM(bed - caffeineCutoffLeadMin), nil
}

// Derive produces the full DerivedCircadian for a screener.
func Derive(s internal.Screener) (internal.DerivedCircadian, error) {
	chrono, err := DeriveChronotype(s)
	if err != nil {
		return internal.DerivedCircadian{}, err
	}
	cutoff, err := ComputeCaffeineCutoff(s.Bedtime)
	if err != nil {
		return internal.DerivedCircadian{}, err
	}
	// Wake time is not used by the cutoff but must still be well-formed.
	if _, err := ParseHHMM(s.WakeTime); err != nil {
		return internal.DerivedCircadian{}, err
	}
	return internal.DerivedCircadian{
		Chronotype:     chrono,
		WakeTime:       s.WakeTime,
		Bedtime:        s.Bedtime,
		CaffeineCutoff: cutoff,
		ShiftWork:      s.ShiftWork,
	}, nil
}
