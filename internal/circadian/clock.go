// Package circadian implements the circadian task-scheduling core: local
// clock arithmetic, chronotype derivation, wearable drift suggestions, and
// the day scheduler that turns abstract wellness tasks into concrete UTC
// instants. Everything in this package is pure computation over
// already-fetched inputs; no I/O happens here.
package circadian

import (
	"fmt"
	"regexp"
	"time"
)

const minutesPerDay = 24 * 60

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseHHMM converts a strict local "HH:MM" string into minutes since
// midnight. Anything outside 00:00–23:59 is an error; callers are expected
// to validate user input before reaching the scheduler.
func ParseHHMM(s string) (int, error) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("circadian: invalid HH:MM time %q", s)
	}
	var h, mm int
	fmt.Sscanf(s, "%d:%d", &h, &mm)
	return h*60 + mm, nil
}

// ToHHMM formats minutes since midnight as "HH:MM", normalizing any integer
// (negative or past 24h) into [0, 1440) first.
func ToHHMM(totalMinutes int) string {
	m := ((totalMinutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// NormalizeBedMinutes treats a bedtime earlier than the wake time as
// belonging to the next calendar day. This is the canonical representation
// of sleeping past midnight.
func NormalizeBedMinutes(wakeMin, bedMin int) int {
	if bedMin < wakeMin {
		return bedMin + minutesPerDay
	}
	return bedMin
}

// AtLocal builds the instant that reads as dateISO at hhmm on the wall clock
// of loc. time.Date resolves the zone offset for that exact wall-clock
// reading, so instants on either side of a DST transition come out correct
// without any fixed-offset arithmetic.
func AtLocal(dateISO, hhmm string, loc *time.Location) (time.Time, error) {
	d, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return time.Time{}, fmt.Errorf("circadian: invalid date %q: %w", dateISO, err)
	}
	mins, err := ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, day := d.Date()
	return time.Date(y, mo, day, mins/60, mins%60, 0, 0, loc), nil
}

func AddMinutes(t time.Time, m int) time.Time {
	return t.Add(time.Duration(m) * time.Minute)
}

// RoundToQuarter snaps an instant to the nearest 15-minute boundary.
func RoundToQuarter(t time.Time) time.Time {
	return t.Round(15 * time.Minute)
}

// Clamp clips t into the closed interval [min, max].
func Clamp(t, min, max time.Time) time.Time {
	if t.Before(min) {
		return min
	}
	if t.After(max) {
		return max
	}
	return t
}

// NextISODay returns the calendar day after dateISO, computed in UTC.
func NextISODay(dateISO string) (string, error) {
	d, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return "", fmt.Errorf("circadian: invalid date %q: %w", dateISO, err)
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02"), nil
}
