package circadian

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AndDavies/rooted-companion/internal"
)

func TestSelfReportDominates(t *testing.T) {
	// A stated morning or evening identity wins outright, whatever the
	// reported sleep times imply.
	morning := internal.Screener{SelfID: "morning", WakeTime: "11:00", Bedtime: "03:00"}
	got, err := DeriveChronotype(morning)
	assert.NoError(t, err)
	assert.Equal(t, internal.ChronotypeLark, got)

	evening := internal.Screener{SelfID: "evening", WakeTime: "09:30", Bedtime: "01:00"}
	got, err = DeriveChronotype(evening)
	assert.NoError(t, err)
	assert.Equal(t, internal.ChronotypeOwl, got)
}

func TestMidpointBanding(t *testing.T) {
	cases := []struct {
		name     string
		wake     string
		bed      string
		expected internal.Chronotype
	}{
		{"early sleeper midpoint 02:30", "06:30", "22:30", internal.ChronotypeLark},
		{"late sleeper midpoint 06:30", "10:00", "03:00", internal.ChronotypeOwl},
		{"midpoint 04:15 stays neutral", "08:00", "00:30", internal.ChronotypeNeutral},
		{"midpoint 03:30 in the band gap", "07:00", "00:00", internal.ChronotypeNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeriveChronotype(internal.Screener{SelfID: "neither", WakeTime: tc.wake, Bedtime: tc.bed})
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDeriveChronotypeErrors(t *testing.T) {
	_, err := DeriveChronotype(internal.Screener{SelfID: "sometimes", WakeTime: "07:00", Bedtime: "23:00"})
	assert.Error(t, err)

	_, err = DeriveChronotype(internal.Screener{SelfID: "neither", WakeTime: "7:00", Bedtime: "23:00"})
	assert.Error(t, err)

	_, err = DeriveChronotype(internal.Screener{SelfID: "neither", WakeTime: "07:00", Bedtime: "25:00"})
	assert.Error(t, err)
}

func TestComputeCaffeineCutoff(t *testing.T) {
	cutoff, err := ComputeCaffeineCutoff("22:30")
	assert.NoError(t, err)
	assert.Equal(t, "14:30", cutoff)

	// Bedtimes past midnight wrap correctly.
	cutoff, err = ComputeCaffeineCutoff("01:00")
	assert.NoError(t, err)
	assert.Equal(t, "17:00", cutoff)

	cutoff, err = ComputeCaffeineCutoff("00:30")
	assert.NoError(t, err)
	assert.Equal(t, "16:30", cutoff)

	_, err = ComputeCaffeineCutoff("bedtime")
	assert.Error(t, err)
}

func TestDerive(t *testing.T) {
	derived, err := Derive(internal.Screener{SelfID: "neither", WakeTime: "06:30", Bedtime: "22:30", ShiftWork: true})
	assert.NoError(t, err)
	assert.Equal(t, internal.DerivedCircadian{
		Chronotype:     internal.ChronotypeLark,
		WakeTime:       "06:30",
		Bedtime:        "22:30",
		CaffeineCutoff: "14:30",
		ShiftWork:      true,
	}, derived)

	_, err = Derive(internal.Screener{SelfID: "morning", WakeTime: "06:30", Bedtime: "24:30"})
	assert.Error(t, err)
}
