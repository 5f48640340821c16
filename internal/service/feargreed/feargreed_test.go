package feargreed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/services/sentiment"
	xhttp "SentiPull/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

const cnnBody = `{
  "fear_and_greed": {"score": 41.7, "rating": "fear", "timestamp": "2025-01-08T21:00:00+00:00"},
  "fear_and_greed_historical": {
    "data": [
      {"x": 1736035200000.0, "y": 30.1, "rating": "fear"},
      {"x": 1736121600000.0, "y": 35.4, "rating": "fear"},
      {"x": 1736208000000.0, "y": 38.9, "rating": "fear"}
    ]
  }
}`

func testConfig(base string) Config {
	return Config{BaseURL: base, UserAgent: "Mozilla/5.0 test", Timeout: time.Second, Attempts: 2, Backoff: time.Millisecond}
}

func TestCNNFetchOrdersMostRecentFirst(t *testing.T) {
	var path, ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ua = r.URL.Path, r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(cnnBody))
	}))
	defer srv.Close()

	now := func() time.Time { return time.Date(2025, 1, 8, 22, 0, 0, 0, time.UTC) }
	src := NewCNN(testConfig(srv.URL), nil, WithClock(now))
	obs, err := src.Fetch(context.Background(), 30)
	require.NoError(t, err)

	// 30*7/5+10 = 52 days before 2025-01-08
	assert.Equal(t, "/index/fearandgreed/graphdata/2024-11-17", path)
	assert.Equal(t, "Mozilla/5.0 test", ua)

	require.Len(t, obs, 4)
	assert.Equal(t, day(2025, 1, 8), obs[0].Date)
	assert.Equal(t, json.Number("41.7"), obs[0].Score)
	assert.Equal(t, day(2025, 1, 7), obs[1].Date)
	assert.Equal(t, json.Number("38.9"), obs[1].Score)
	assert.Equal(t, day(2025, 1, 5), obs[3].Date)
	assert.Equal(t, "fear", obs[3].Rating)
}

func TestCNNLivePointReplacesSameDay(t *testing.T) {
	body := strings.Replace(cnnBody, "2025-01-08T21:00:00", "2025-01-07T21:00:00", 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	obs, err := NewCNN(testConfig(srv.URL), nil).Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, day(2025, 1, 7), obs[0].Date)
	assert.Equal(t, json.Number("41.7"), obs[0].Score)
	assert.Equal(t, json.Number("35.4"), obs[1].Score)
}

func TestCNNNullScoresStayMissing(t *testing.T) {
	body := `{
  "fear_and_greed": {"score": null, "rating": "", "timestamp": "2025-01-08T21:00:00+00:00"},
  "fear_and_greed_historical": {"data": [
    {"x": 1736121600000.0, "y": 35.4, "rating": "fear"},
    {"x": 1736208000000.0, "y": null, "rating": "fear"}
  ]}
}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	obs, err := NewCNN(testConfig(srv.URL), nil).Fetch(context.Background(), 10)
	require.NoError(t, err)

	// live point without a score is dropped, the null historical score is kept as nil
	require.Len(t, obs, 2)
	assert.Equal(t, day(2025, 1, 7), obs[0].Date)
	assert.Nil(t, obs[0].Score)

	_, err = sentiment.Analyze(obs)
	var ve *sentiment.ValidationError
	require.True(t, errors.As(err, &ve), "got %v", err)
	assert.Equal(t, 0, ve.Index)
}

func TestCNNStringScoreIsCoerced(t *testing.T) {
	body := strings.Replace(cnnBody, `"score": 41.7`, `"score": "41.7"`, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	now := func() time.Time { return time.Date(2025, 1, 8, 22, 0, 0, 0, time.UTC) }
	obs, err := NewCNN(testConfig(srv.URL), nil, WithClock(now)).Fetch(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, obs, 4)
	assert.Equal(t, "41.7", obs[0].Score)

	res, err := sentiment.Analyze(obs)
	require.NoError(t, err)
	assert.Equal(t, 41.7, res.Signal.Score)
}

func TestCNNRetriesThenFails(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewCNN(testConfig(srv.URL), nil).Fetch(context.Background(), 10)
	require.Error(t, err)
	var se *xhttp.StatusError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, 2, calls)
}

func TestAlternativeFetch(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fng/", r.URL.Path)
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
  "name": "Fear and Greed Index",
  "data": [
    {"value": "72", "value_classification": "Greed", "timestamp": "1736294400"},
    {"value": "65", "value_classification": "Greed", "timestamp": "1736208000"},
    {"value": "n/a", "value_classification": "Greed", "timestamp": "garbage"}
  ],
  "metadata": {"error": null}
}`))
	}))
	defer srv.Close()

	obs, err := NewAlternative(testConfig(srv.URL), nil).Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "format=json&limit=3", query)
	require.Len(t, obs, 2)
	assert.Equal(t, day(2025, 1, 8), obs[0].Date)
	assert.Equal(t, "72", obs[0].Score)
	assert.Equal(t, "Greed", obs[0].Rating)
}

func TestAlternativeMetadataError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [], "metadata": {"error": "limit too high"}}`))
	}))
	defer srv.Close()

	_, err := NewAlternative(testConfig(srv.URL), nil).Fetch(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit too high")
}

func TestNewRejectsArchive(t *testing.T) {
	_, err := New(drepo.ProviderArchive, Config{}, nil)
	assert.Error(t, err)

	src, err := New(drepo.ProviderAlternative, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "alternative", src.Name())
}
