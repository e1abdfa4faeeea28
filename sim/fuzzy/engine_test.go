package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// category maps a crisp score to the 0-based category index, most urgent
// first, as the caller does.
func category(score float64) int {
	switch {
	case score < 1.5:
		return 0
	case score < 2.5:
		return 1
	case score < 3.5:
		return 2
	case score < 4.5:
		return 3
	default:
		return 4
	}
}

func TestEngine_SingleVerySevereSymptomIsRed(t *testing.T) {
	// GIVEN one very severe symptom and nothing else
	e := NewEngine()

	score, err := e.Infer([]float64{10, 0, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 0, category(score), "score %v", score)
	assert.InDelta(t, 4.0/3.0, score, 0.02)
}

func TestEngine_TwoSevereSymptomsAreOrange(t *testing.T) {
	e := NewEngine()

	score, err := e.Infer([]float64{8, 8, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 1, category(score), "score %v", score)
	assert.InDelta(t, 2.0, score, 0.02)
}

func TestEngine_SingleSevereSymptomIsYellow(t *testing.T) {
	e := NewEngine()

	score, err := e.Infer([]float64{8, 0, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 2, category(score), "score %v", score)
}

func TestEngine_ThreeModerateSymptomsAreYellow(t *testing.T) {
	e := NewEngine()

	score, err := e.Infer([]float64{5, 5, 5, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 2, category(score), "score %v", score)
}

func TestEngine_OneModerateSymptomIsGreen(t *testing.T) {
	e := NewEngine()

	score, err := e.Infer([]float64{5, 0, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 3, category(score), "score %v", score)
}

func TestEngine_AllAbsentSymptomsAreBlue(t *testing.T) {
	// GIVEN nothing wrong at all
	e := NewEngine()

	score, err := e.Infer([]float64{0, 0, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 4, category(score), "score %v", score)
	assert.InDelta(t, 14.0/3.0, score, 0.02)
}

func TestEngine_MildSymptomsAreBlue(t *testing.T) {
	e := NewEngine()

	score, err := e.Infer([]float64{2, 2, 0, 0, 0})

	require.NoError(t, err)
	assert.Equal(t, 4, category(score), "score %v", score)
}

func TestEngine_ShortVectorsAreZeroPadded(t *testing.T) {
	e := NewEngine()

	full, err := e.Infer([]float64{8, 8, 0, 0, 0})
	require.NoError(t, err)
	short, err := e.Infer([]float64{8, 8})
	require.NoError(t, err)

	assert.Equal(t, full, short)
}

func TestEngine_TooManyInputsIsAnError(t *testing.T) {
	e := NewEngine()

	_, err := e.Infer([]float64{1, 2, 3, 4, 5, 6})

	assert.Error(t, err)
}

func TestEngine_OutOfRangeValuesAreClamped(t *testing.T) {
	e := NewEngine()

	high, err := e.Infer([]float64{15, 0, 0, 0, 0})
	require.NoError(t, err)
	ten, err := e.Infer([]float64{10, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, ten, high)

	low, err := e.Infer([]float64{-3, 0, 0, 0, 0})
	require.NoError(t, err)
	zero, err := e.Infer([]float64{0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, zero, low)
}

// anchors are the numeric values of the five severity words.
var anchors = []float64{0, 2, 5, 8, 10}

func TestEngine_EveryAnchorCombinationResolves(t *testing.T) {
	// Every combination of canonical severity levels must fire at least one
	// rule and produce a score inside the output universe.
	e := NewEngine()

	values := make([]float64, NumInputs)
	var walk func(pos int)
	walk = func(pos int) {
		if pos == NumInputs {
			score, err := e.Infer(values)
			require.NoError(t, err, "input %v", values)
			assert.GreaterOrEqual(t, score, 1.0, "input %v", values)
			assert.LessOrEqual(t, score, 5.0, "input %v", values)
			return
		}
		for _, a := range anchors {
			values[pos] = a
			walk(pos + 1)
		}
	}
	walk(0)
}

func TestEngine_RaisingAnySeverityNeverLowersUrgency(t *testing.T) {
	// Raising one symptom by one linguistic level must never move the
	// patient to a less urgent category.
	e := NewEngine()

	values := make([]float64, NumInputs)
	var walk func(pos int)
	walk = func(pos int) {
		if pos == NumInputs {
			base, err := e.Infer(values)
			require.NoError(t, err)
			for i := 0; i < NumInputs; i++ {
				level := severityLevel(values[i])
				if level == len(anchors)-1 {
					continue
				}
				raised := append([]float64(nil), values...)
				raised[i] = anchors[level+1]
				after, err := e.Infer(raised)
				require.NoError(t, err)
				assert.LessOrEqual(t, category(after), category(base),
					"raising input %d of %v to %v moved category %d -> %d",
					i, values, raised[i], category(base), category(after))
			}
			return
		}
		for _, a := range anchors {
			values[pos] = a
			walk(pos + 1)
		}
	}
	walk(0)
}

func severityLevel(v float64) int {
	for i, a := range anchors {
		if a == v {
			return i
		}
	}
	return -1
}

func TestEngine_IsDeterministic(t *testing.T) {
	e := NewEngine()
	in := []float64{8, 5, 2, 0, 5}

	a, err := e.Infer(in)
	require.NoError(t, err)
	b, err := e.Infer(in)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
