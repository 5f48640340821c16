package sentiment

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"SentiPull/internal/domain/models"
)

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Action
	}{
		{-10, models.ActionStrongBuy},
		{0, models.ActionStrongBuy},
		{18, models.ActionStrongBuy},
		{25, models.ActionStrongBuy},
		{25.0001, models.ActionBuy},
		{45, models.ActionBuy},
		{45.5, models.ActionHold},
		{55, models.ActionHold},
		{55.01, models.ActionSell},
		{75, models.ActionSell},
		{75.01, models.ActionStrongSell},
		{100, models.ActionStrongSell},
		{140, models.ActionStrongSell},
	}
	for _, c := range cases {
		got, desc := Classify(c.score)
		if got != c.want {
			t.Fatalf("Classify(%v) = %s, want %s", c.score, got, c.want)
		}
		if desc == "" || desc != Describe(got) {
			t.Fatalf("Classify(%v) description %q does not match action", c.score, desc)
		}
	}
}

func TestClassifyRaw(t *testing.T) {
	a, _, err := ClassifyRaw("44.9")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if a != models.ActionBuy {
		t.Fatalf("expected BUY, got %s", a)
	}

	_, _, err = ClassifyRaw("greedy")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Index != -1 {
		t.Fatalf("expected index -1 for standalone score, got %d", ve.Index)
	}
}

func TestCoerceScore(t *testing.T) {
	ok := []struct {
		in   interface{}
		want float64
	}{
		{float64(12.5), 12.5},
		{float32(3), 3},
		{int(7), 7},
		{int64(99), 99},
		{uint8(5), 5},
		{json.Number("61.2"), 61.2},
		{" 42 ", 42},
		{"1e1", 10},
	}
	for _, c := range ok {
		got, err := CoerceScore(c.in)
		if err != nil {
			t.Fatalf("CoerceScore(%#v) unexpected err: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("CoerceScore(%#v) = %v, want %v", c.in, got, c.want)
		}
	}

	bad := []interface{}{nil, "", "fear", true, math.NaN(), math.Inf(1), json.Number("x"), []int{1}}
	for _, in := range bad {
		if _, err := CoerceScore(in); !IsValidationError(err) {
			t.Fatalf("CoerceScore(%#v) expected ValidationError, got %v", in, err)
		}
	}
}

func TestThresholdConstantsAreIndependent(t *testing.T) {
	// Both pairs carry the same value but are declared separately.
	if ExtremeFearMax != ClassifyStrongBuyMax || ExtremeGreedMin != ClassifySellMax {
		t.Fatalf("unexpected threshold drift: fear=%v/%v greed=%v/%v",
			ExtremeFearMax, ClassifyStrongBuyMax, ExtremeGreedMin, ClassifySellMax)
	}
}
