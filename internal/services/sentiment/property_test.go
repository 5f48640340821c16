package sentiment

import (
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"SentiPull/internal/domain/models"
)

func scoresToSeries(scores []float64) []models.Observation {
	raw := make([]interface{}, len(scores))
	for i, s := range scores {
		raw[i] = s
	}
	return series(raw...)
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())
	return gopter.NewProperties(parameters)
}

func TestProperty_ExtremeBands(t *testing.T) {
	properties := newProperties()

	properties.Property("scores at or below 25 are STRONG_BUY", prop.ForAll(
		func(score float64) bool {
			a, _ := Classify(score)
			return a == models.ActionStrongBuy
		},
		gen.Float64Range(-1000, 25),
	))

	properties.Property("scores above 75 are STRONG_SELL", prop.ForAll(
		func(score float64) bool {
			if score <= 75 {
				return true
			}
			a, _ := Classify(score)
			return a == models.ActionStrongSell
		},
		gen.Float64Range(75, 1000),
	))

	properties.TestingRun(t)
}

func TestProperty_ClassifyMonotonic(t *testing.T) {
	properties := newProperties()

	properties.Property("higher score is never more bullish", prop.ForAll(
		func(s1, s2 float64) bool {
			a1, _ := Classify(s1)
			a2, _ := Classify(s2)
			switch {
			case s1 < s2:
				return a1.Rank() <= a2.Rank()
			case s1 > s2:
				return a1.Rank() >= a2.Rank()
			default:
				return a1 == a2
			}
		},
		gen.Float64Range(-20, 120),
		gen.Float64Range(-20, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_AnalyzeIdempotent(t *testing.T) {
	properties := newProperties()

	properties.Property("same input yields identical output", prop.ForAll(
		func(scores []float64) bool {
			if len(scores) == 0 {
				return true
			}
			in := scoresToSeries(scores)
			a, err1 := Analyze(in)
			b, err2 := Analyze(in)
			return err1 == nil && err2 == nil && reflect.DeepEqual(a, b)
		},
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.TestingRun(t)
}

func TestProperty_OptionalParts(t *testing.T) {
	properties := newProperties()

	properties.Property("optional parts follow history length", prop.ForAll(
		func(n int) bool {
			scores := make([]float64, n)
			for i := range scores {
				scores[i] = float64((i * 37) % 101)
			}
			res, err := Analyze(scoresToSeries(scores))
			if err != nil {
				return false
			}
			if (res.Change != nil) != (n >= 2) {
				return false
			}
			if res.Window == nil || res.Window.WindowSize != min(WindowSize, n) {
				return false
			}
			if (res.Trend != nil) != (n >= TrendSubWindow) {
				return false
			}
			return res.Window.ExtremeFearDays+res.Window.ExtremeGreedDays <= res.Window.WindowSize
		},
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
