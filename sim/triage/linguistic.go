// Package triage orchestrates flowchart selection, linguistic severity
// conversion and fuzzy inference into a single assessment service.
package triage

import "strings"

// Numeric anchors of the linguistic severity scale.
const (
	SeverityNone       = 0.0
	SeverityMild       = 2.0
	SeverityModerate   = 5.0
	SeveritySevere     = 8.0
	SeverityVerySevere = 10.0
)

var severityValues = map[string]float64{
	"none":        SeverityNone,
	"mild":        SeverityMild,
	"moderate":    SeverityModerate,
	"severe":      SeveritySevere,
	"very_severe": SeverityVerySevere,
}

// severityWords in ascending order, for reverse lookup.
var severityWords = []struct {
	word  string
	value float64
}{
	{"none", SeverityNone},
	{"mild", SeverityMild},
	{"moderate", SeverityModerate},
	{"severe", SeveritySevere},
	{"very_severe", SeverityVerySevere},
}

// SeverityValue converts a severity word to its numeric anchor. Unknown words
// degrade to none (0); missing data never raises.
func SeverityValue(word string) float64 {
	if v, ok := severityValues[strings.ToLower(strings.TrimSpace(word))]; ok {
		return v
	}
	return SeverityNone
}

// SeverityWord converts a numeric value to the nearest severity word.
func SeverityWord(value float64) string {
	best := severityWords[0]
	for _, sw := range severityWords[1:] {
		if abs(value-sw.value) < abs(value-best.value) {
			best = sw
		}
	}
	return best.word
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
