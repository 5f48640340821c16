package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestAppErrorResponseUsesErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ValidationFailedError("bad score"), http.StatusUnprocessableEntity, "ERR_VALIDATION"},
		{EmptySeriesError("no data"), http.StatusNotFound, "ERR_EMPTY_SERIES"},
		{fmt.Errorf("wrapped: %w", UpstreamError("cnn down")), http.StatusBadGateway, "ERR_UPSTREAM"},
		{errors.New("plain"), http.StatusInternalServerError, ""},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := AppErrorResponse(c, tc.err); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if rec.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rec.Code)
		}
		if tc.code == "" {
			continue
		}
		var body struct {
			Status int        `json:"status"`
			Data   []AppError `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != tc.status || len(body.Data) != 1 || body.Data[0].Code != tc.code {
			t.Fatalf("unexpected body %s", rec.Body.String())
		}
	}
}

func TestReadAndValidateRequestReportsQueryNames(t *testing.T) {
	type req struct {
		Limit int `query:"limit" default:"30" validate:"gte=1,lte=2000"`
	}
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=5000", nil), httptest.NewRecorder())
	var r req
	errs := ReadAndValidateRequest(c, &r)
	verrs, ok := errs.([]ValidationError)
	if !ok || len(verrs) != 1 || verrs[0].Field != "limit" || verrs[0].Code != "ERR_LTE" {
		t.Fatalf("unexpected validation result %#v", errs)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	r = req{}
	if errs := ReadAndValidateRequest(c, &r); errs != nil {
		t.Fatalf("unexpected errs %#v", errs)
	}
	if r.Limit != 30 {
		t.Fatalf("expected default limit, got %d", r.Limit)
	}
}
