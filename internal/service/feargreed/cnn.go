package feargreed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/util"
)

const DefaultCNNBaseURL = "https://production.dataviz.cnn.io"

// CNN reads the CNN Business Fear & Greed index. The endpoint rejects
// non-browser user agents, so Config.UserAgent should be set.
type CNN struct {
	baseURL string
	http    *xhttp.Client
	log     *applogger.Logger
	now     func() time.Time
}

func NewCNN(cfg Config, log *applogger.Logger, opts ...Option) *CNN {
	o := buildOptions(opts)
	if log == nil {
		log = applogger.Nop()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultCNNBaseURL
	}
	return &CNN{
		baseURL: strings.TrimRight(base, "/"),
		http:    newHTTPClient(cfg),
		log:     log,
		now:     o.now,
	}
}

func (c *CNN) Name() string { return string(drepo.ProviderCNN) }

// Scores stay raw so the engine sees exactly what the upstream sent.
type cnnPoint struct {
	X      float64         `json:"x"` // epoch ms
	Y      json.RawMessage `json:"y"`
	Rating string          `json:"rating"`
}

type cnnResponse struct {
	FearAndGreed struct {
		Score     json.RawMessage `json:"score"`
		Rating    string          `json:"rating"`
		Timestamp string          `json:"timestamp"`
	} `json:"fear_and_greed"`
	Historical struct {
		Data []cnnPoint `json:"data"`
	} `json:"fear_and_greed_historical"`
}

// Fetch returns up to limit daily observations, most recent first.
func (c *CNN) Fetch(ctx context.Context, limit int) ([]models.Observation, error) {
	limit = drepo.ClampLimit(limit)
	url := fmt.Sprintf("%s/index/fearandgreed/graphdata/%s", c.baseURL, c.startDate(limit))

	var resp cnnResponse
	if err := c.http.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("cnn fetch: %w", err)
	}

	obs := c.toObservations(resp)
	if len(obs) > limit {
		obs = obs[:limit]
	}
	c.log.Debug("cnn fetched",
		applogger.Int("points", len(resp.Historical.Data)),
		applogger.Int("returned", len(obs)),
	)
	return obs, nil
}

// startDate reaches back far enough to cover limit trading days.
func (c *CNN) startDate(limit int) string {
	days := limit*7/5 + 10
	return c.now().UTC().AddDate(0, 0, -days).Format(time.DateOnly)
}

func (c *CNN) toObservations(resp cnnResponse) []models.Observation {
	hist := resp.Historical.Data
	out := make([]models.Observation, 0, len(hist)+1)
	for i := len(hist) - 1; i >= 0; i-- {
		p := hist[i]
		out = append(out, models.Observation{
			Date:   util.DayUTC(util.FromEpoch(p.X)),
			Score:  rawScore(p.Y),
			Rating: p.Rating,
		})
	}

	live, ok := util.ParseTime(resp.FearAndGreed.Timestamp)
	score := rawScore(resp.FearAndGreed.Score)
	if !ok || score == nil {
		return out
	}
	point := models.Observation{
		Date:   util.DayUTC(live),
		Score:  score,
		Rating: resp.FearAndGreed.Rating,
	}
	switch {
	case len(out) == 0 || point.Date.After(out[0].Date):
		out = append([]models.Observation{point}, out...)
	case point.Date.Equal(out[0].Date):
		out[0] = point
	}
	return out
}

// rawScore keeps numbers as json.Number and strings as strings. A missing
// or null score is nil, which the engine rejects.
func rawScore(raw json.RawMessage) interface{} {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return v
}
