package domain

import "math"

const (
	QuestionCount = 20
	PointTotal    = 100
)

type CompletionBand string

const (
	BandGettingStarted      CompletionBand = "Getting Started"
	BandInProgress          CompletionBand = "In Progress"
	BandSubstantialProgress CompletionBand = "Substantial Progress"
	BandNearlyComplete      CompletionBand = "Nearly Complete"
	BandExtendedWork        CompletionBand = "Extended Work"
)

var bandRanges = map[CompletionBand]string{
	BandGettingStarted:      "0-25%",
	BandInProgress:          "25-50%",
	BandSubstantialProgress: "50-75%",
	BandNearlyComplete:      "75-100%",
	BandExtendedWork:        "100%+",
}

// Label includes the estimated share of the assessment, e.g. "In Progress (25-50%)".
func (b CompletionBand) Label() string {
	return string(b) + " (" + bandRanges[b] + ")"
}

// IdealShare is the expected fraction of time per scored category, derived
// from the point weights. Setup time is not scored.
var IdealShare = map[Category]float64{
	CategoryBasic:        0.20,
	CategoryIntermediate: 0.25,
	CategoryAdvanced:     0.30,
	CategoryBackend:      0.25,
}

// EstimateCompletion maps active minutes onto a band. Lower bounds are inclusive.
func EstimateCompletion(totalMinutes float64) CompletionBand {
	switch {
	case totalMinutes < 30:
		return BandGettingStarted
	case totalMinutes < 90:
		return BandInProgress
	case totalMinutes < 150:
		return BandSubstantialProgress
	case totalMinutes < 240:
		return BandNearlyComplete
	default:
		return BandExtendedWork
	}
}

// EfficiencyScore compares the actual time split against IdealShare and
// returns 100 minus the total absolute deviation in percentage points,
// floored at 0 and rounded to one decimal.
func EfficiencyScore(categoryTime map[Category]float64) float64 {
	var total float64
	for _, minutes := range categoryTime {
		total += minutes
	}
	if total == 0 {
		return 0
	}
	var deviation float64
	for _, c := range Categories {
		ideal, scored := IdealShare[c]
		if !scored {
			continue
		}
		deviation += math.Abs(categoryTime[c]/total - ideal)
	}
	return round1(math.Max(0, 100-deviation*100))
}

// TimeDistribution returns each category's share of totalMinutes in percent,
// rounded to one decimal. It is empty when nothing has been tracked.
func TimeDistribution(categoryTime map[Category]float64, totalMinutes float64) map[Category]float64 {
	out := map[Category]float64{}
	if totalMinutes == 0 {
		return out
	}
	for _, c := range Categories {
		out[c] = round1(categoryTime[c] / totalMinutes * 100)
	}
	return out
}

// Metrics are the derived figures reported by summary and export.
type Metrics struct {
	Completion        CompletionBand
	Efficiency        float64
	Distribution      map[Category]float64
	AvgPerQuestionMin float64
	MinutesPerPoint   float64
	TotalHours        float64
}

func (l *Ledger) Metrics() Metrics {
	return Metrics{
		Completion:        EstimateCompletion(l.TotalActiveTime),
		Efficiency:        EfficiencyScore(l.CategoryTime),
		Distribution:      TimeDistribution(l.CategoryTime, l.TotalActiveTime),
		AvgPerQuestionMin: l.TotalActiveTime / QuestionCount,
		MinutesPerPoint:   l.TotalActiveTime / PointTotal,
		TotalHours:        l.TotalActiveTime / 60,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
