package feargreed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
	applogger "SentiPull/pkg/logger"
	"SentiPull/pkg/util"
)

const DefaultAlternativeBaseURL = "https://api.alternative.me"

// Alternative reads the alternative.me crypto Fear & Greed index.
type Alternative struct {
	baseURL string
	http    *xhttp.Client
	log     *applogger.Logger
}

func NewAlternative(cfg Config, log *applogger.Logger, _ ...Option) *Alternative {
	if log == nil {
		log = applogger.Nop()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultAlternativeBaseURL
	}
	return &Alternative{
		baseURL: strings.TrimRight(base, "/"),
		http:    newHTTPClient(cfg),
		log:     log,
	}
}

func (a *Alternative) Name() string { return string(drepo.ProviderAlternative) }

type altPoint struct {
	Value          string `json:"value"`
	Classification string `json:"value_classification"`
	Timestamp      string `json:"timestamp"`
}

type altResponse struct {
	Data     []altPoint `json:"data"`
	Metadata struct {
		Error *string `json:"error"`
	} `json:"metadata"`
}

// Fetch returns up to limit observations, most recent first. Scores are
// passed through as the provider's strings.
func (a *Alternative) Fetch(ctx context.Context, limit int) ([]models.Observation, error) {
	limit = drepo.ClampLimit(limit)
	query := map[string][]string{
		"limit":  {strconv.Itoa(limit)},
		"format": {"json"},
	}

	var resp altResponse
	if err := a.http.GetJSON(ctx, a.baseURL+"/fng/", query, &resp); err != nil {
		return nil, fmt.Errorf("alternative fetch: %w", err)
	}
	if resp.Metadata.Error != nil && *resp.Metadata.Error != "" {
		return nil, fmt.Errorf("alternative fetch: provider error: %s", *resp.Metadata.Error)
	}

	obs := make([]models.Observation, 0, len(resp.Data))
	for _, p := range resp.Data {
		ts, ok := util.ParseTime(p.Timestamp)
		if !ok {
			a.log.Warn("alternative: skipping point with bad timestamp", applogger.String("timestamp", p.Timestamp))
			continue
		}
		obs = append(obs, models.Observation{
			Date:   util.DayUTC(ts),
			Score:  p.Value,
			Rating: p.Classification,
		})
	}
	if len(obs) > limit {
		obs = obs[:limit]
	}
	a.log.Debug("alternative fetched", applogger.Int("returned", len(obs)))
	return obs, nil
}
