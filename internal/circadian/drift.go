package circadian

import "github.com/AndDavies/rooted-companion/internal"

// SuggestChronotypeUpdate compares a derived chronotype against recent
// wearable sleep statistics and proposes sharpening it when the measured
// midpoint has shifted. The policy is one-directional: only a currently
// neutral user can be walked to lark or owl. A committed lark or owl
// self-identity is treated as ground truth that wearable drift alone must
// not override, and unstable or missing data never produces a suggestion.
func SuggestChronotypeUpdate(current internal.DerivedCircadian, summary *internal.WearableSummary) *internal.CircadianSuggestion {
	if summary == nil || !summary.Stable {
		return nil
	}

	mid, ok := summaryMidpoint(summary)
	if !ok {
		return nil
	}

	bias := midpointBias(mid)
	if current.Chronotype != internal.ChronotypeNeutral || bias == internal.ChronotypeNeutral {
		return nil
	}

	return &internal.CircadianSuggestion{
		Reason:              "midpoint_shift",
		SuggestedChronotype: bias,
		SuggestedWake:       summary.AvgWakeLocal,
		SuggestedBed:        summary.AvgSleepOnsetLocal,
	}
}

// summaryMidpoint extracts the sleep midpoint from a wearable summary,
// preferring a precomputed midpoint over deriving one from the average
// onset and wake times.
func summaryMidpoint(summary *internal.WearableSummary) (int, bool) {
	if summary.MidpointLocal != "" {
		mid, err := ParseHHMM(summary.MidpointLocal)
		if err != nil {
			return 0, false
		}
		return mid, true
	}
	if summary.AvgSleepOnsetLocal == "" || summary.AvgWakeLocal == "" {
		return 0, false
	}
	onset, err := ParseHHMM(summary.AvgSleepOnsetLocal)
	if err != nil {
		return 0, false
	}
	wake, err := ParseHHMM(summary.AvgWakeLocal)
	if err != nil {
		return 0, false
	}
	return sleepMidpoint(onset, wake), true
}
