// Package sentiment turns a fear/greed observation series into an action
// signal, period-over-period changes, rolling window statistics and a short
// term trend. Everything here is pure and safe for concurrent use.
package sentiment

import "SentiPull/internal/domain/models"

// Classifier bands, closed on the upper bound, evaluated in ascending order.
const (
	ClassifyStrongBuyMax = 25.0
	ClassifyBuyMax       = 45.0
	ClassifyHoldMax      = 55.0
	ClassifySellMax      = 75.0
)

var descriptions = map[models.Action]string{
	models.ActionStrongBuy:  "Extreme fear - contrarian buy opportunity",
	models.ActionBuy:        "Fear - consider buying",
	models.ActionHold:       "Neutral - hold position",
	models.ActionSell:       "Greed - consider selling",
	models.ActionStrongSell: "Extreme greed - consider aggressive selling",
}

// Classify maps a score to an action and its description.
// Scores outside [0,100] still classify through the same bands.
func Classify(score float64) (models.Action, string) {
	var a models.Action
	switch {
	case score <= ClassifyStrongBuyMax:
		a = models.ActionStrongBuy
	case score <= ClassifyBuyMax:
		a = models.ActionBuy
	case score <= ClassifyHoldMax:
		a = models.ActionHold
	case score <= ClassifySellMax:
		a = models.ActionSell
	default:
		a = models.ActionStrongSell
	}
	return a, descriptions[a]
}

// ClassifyRaw coerces a raw value before classifying it.
func ClassifyRaw(v interface{}) (models.Action, string, error) {
	score, err := CoerceScore(v)
	if err != nil {
		return "", "", err
	}
	a, d := Classify(score)
	return a, d, nil
}

// Describe returns the description attached to an action.
func Describe(a models.Action) string { return descriptions[a] }
