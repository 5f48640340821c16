package sentiment

import "SentiPull/internal/domain/models"

// Engine exposes the package functions behind the domain interfaces.
type Engine struct{}

func NewEngine() Engine { return Engine{} }

func (Engine) Analyze(obs []models.Observation) (*models.Analysis, error) { return Analyze(obs) }

func (Engine) ClassifyRaw(v interface{}) (models.Action, string, error) { return ClassifyRaw(v) }
