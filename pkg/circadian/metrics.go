package circadian

import "math"

// StrengthMetrics scores how peaked and how consistent daily activity
// timing is. Amplitude and regularity combine exit and entry hours.
type StrengthMetrics struct {
	Amplitude      float64 `json:"amplitude"`
	Regularity     float64 `json:"regularity"`
	Strength       float64 `json:"strength"`
	PeakHour       int     `json:"peakHour"`
	Classification string  `json:"classification"`
}

// EntropyMetrics measures exit-time dispersion. Predictability is exactly
// 1 - NormalizedEntropy; classification is driven by the normalized
// entropy thresholds, not by predictability. With no exit samples every
// field stays zero and Classification stays empty.
type EntropyMetrics struct {
	Entropy           float64 `json:"entropy"`
	NormalizedEntropy float64 `json:"normalizedEntropy"`
	Predictability    float64 `json:"predictability"`
	Classification    string  `json:"classification"`
}

// ZeitgeberMetrics captures how strongly exits cluster around dawn
// (05:00-10:59) and dusk (17:00-22:59).
type ZeitgeberMetrics struct {
	MorningExits   int     `json:"morningExits"`
	EveningExits   int     `json:"eveningExits"`
	TotalExits     int     `json:"totalExits"`
	Index          float64 `json:"crepuscularIndex"`
	MorningPercent int     `json:"morningPercent"`
	EveningPercent int     `json:"eveningPercent"`
	Classification string  `json:"classification"`
}

// strengthMetrics derives amplitude, regularity and their product from the
// combined 24-hour activity histogram. Callers guarantee a nonzero total.
func strengthMetrics(activity [24]int) StrengthMetrics {
	sum := 0
	maxCount := 0
	peakHour := 0
	for hour, count := range activity {
		sum += count
		if count > maxCount {
			maxCount = count
			peakHour = hour
		}
	}
	mean := float64(sum) / 24

	variance := 0.0
	for _, count := range activity {
		diff := float64(count) - mean
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / 24)

	amplitude := (float64(maxCount) - mean) / mean
	regularity := 1 / (1 + stdDev/mean)

	classification := "Weak"
	switch {
	case amplitude > 1.5:
		classification = "Strong"
	case amplitude > 0.8:
		classification = "Moderate"
	}

	return StrengthMetrics{
		Amplitude:      round2(amplitude),
		Regularity:     round2(regularity),
		Strength:       round2(amplitude * regularity),
		PeakHour:       peakHour,
		Classification: classification,
	}
}

// entropyMetrics computes Shannon entropy over the exit-hour distribution,
// normalized by log2(24). Zero exits yields the neutral zero value; there
// is no exit-time behavior to score, predictable or otherwise.
func entropyMetrics(exitHours []int) EntropyMetrics {
	total := len(exitHours)
	if total == 0 {
		return EntropyMetrics{}
	}

	var histogram [24]int
	for _, hour := range exitHours {
		histogram[hour]++
	}

	entropy := 0.0
	for _, count := range histogram {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	normalized := entropy / math.Log2(24)

	classification := "Chaotic"
	switch {
	case normalized < 0.5:
		classification = "Highly Predictable"
	case normalized < 0.8:
		classification = "Moderately Predictable"
	}

	return EntropyMetrics{
		Entropy:           round2(entropy),
		NormalizedEntropy: round2(normalized),
		Predictability:    round2(1 - normalized),
		Classification:    classification,
	}
}

// zeitgeberMetrics computes the crepuscular index from exit hours only.
func zeitgeberMetrics(exitHours []int) ZeitgeberMetrics {
	metrics := ZeitgeberMetrics{TotalExits: len(exitHours), Classification: "Not Crepuscular"}
	for _, hour := range exitHours {
		if hour >= 5 && hour <= 10 {
			metrics.MorningExits++
		}
		if hour >= 17 && hour <= 22 {
			metrics.EveningExits++
		}
	}
	if metrics.TotalExits == 0 {
		return metrics
	}

	total := float64(metrics.TotalExits)
	metrics.Index = round2(float64(metrics.MorningExits+metrics.EveningExits) / total)
	metrics.MorningPercent = int(math.Round(float64(metrics.MorningExits) / total * 100))
	metrics.EveningPercent = int(math.Round(float64(metrics.EveningExits) / total * 100))
	switch {
	case metrics.Index > 0.6:
		metrics.Classification = "Strongly Crepuscular"
	case metrics.Index > 0.4:
		metrics.Classification = "Moderately Crepuscular"
	}
	return metrics
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
