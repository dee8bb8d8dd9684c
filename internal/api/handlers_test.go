// CineStellation - Movie Similarity Constellations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinestellation

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinestellation/internal/config"
	"github.com/tomtom215/cinestellation/internal/constellation"
	"github.com/tomtom215/cinestellation/internal/corpus"
	"github.com/tomtom215/cinestellation/internal/engine"
	"github.com/tomtom215/cinestellation/internal/recommend"
)

// fakeEngine scripts pipeline behavior for handler tests.
type fakeEngine struct {
	loadErr    error
	computeErr error
	buildErr   error
	initErr    error

	entries      []recommend.Entry
	recommendErr error

	dataset   *constellation.Dataset
	exportErr error

	status engine.Status

	lastMoviesPath  string
	lastRatingsPath string
	lastTopN        int
}

func (f *fakeEngine) LoadDataset(_ context.Context, moviesPath, ratingsPath string) error {
	f.lastMoviesPath, f.lastRatingsPath = moviesPath, ratingsPath
	return f.loadErr
}

func (f *fakeEngine) Initialize(context.Context) error        { return f.initErr }
func (f *fakeEngine) ComputeSimilarity(context.Context) error { return f.computeErr }
func (f *fakeEngine) BuildConstellations(context.Context) error {
	return f.buildErr
}

func (f *fakeEngine) Recommend(movieID, topN int) ([]recommend.Entry, error) {
	f.lastTopN = topN
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	return f.entries, nil
}

func (f *fakeEngine) Export() (*constellation.Dataset, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.dataset, nil
}

func (f *fakeEngine) Status() engine.Status { return f.status }

func testServer(eng Engine) *Server {
	return NewServer(eng,
		config.APIConfig{DefaultTopN: 10, MaxTopN: 50, RateLimit: 0, RatePeriod: time.Minute},
		config.DatasetConfig{MoviesPath: "/data/movies.csv", RatingsPath: "/data/ratings.csv"},
	)
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an envelope: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	w := doRequest(t, testServer(&fakeEngine{}), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Status != "ok" {
		t.Errorf("envelope status = %q", resp.Status)
	}
}

func TestRecommendHandler(t *testing.T) {
	eng := &fakeEngine{entries: []recommend.Entry{
		{ID: 2, Title: "Jumanji (1995)", Similarity: 0.6, Rating: 3.5, Genres: []string{"Adventure"}},
	}}
	srv := testServer(eng)

	w := doRequest(t, srv, http.MethodGet, "/api/v1/recommend/1?topN=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if eng.lastTopN != 5 {
		t.Errorf("topN = %d, want 5", eng.lastTopN)
	}

	resp := decodeEnvelope(t, w)
	raw, _ := json.Marshal(resp.Data)
	var entries []recommend.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		t.Fatalf("data is not an entry list: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRecommendHandlerDefaultsAndCaps(t *testing.T) {
	eng := &fakeEngine{}
	srv := testServer(eng)

	doRequest(t, srv, http.MethodGet, "/api/v1/recommend/1", "")
	if eng.lastTopN != 10 {
		t.Errorf("default topN = %d, want 10", eng.lastTopN)
	}

	doRequest(t, srv, http.MethodGet, "/api/v1/recommend/1?topN=500", "")
	if eng.lastTopN != 50 {
		t.Errorf("capped topN = %d, want 50", eng.lastTopN)
	}
}

func TestRecommendHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		engine     *fakeEngine
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			target:     "/api/v1/recommend/999",
			engine:     &fakeEngine{recommendErr: recommend.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   codeNotFound,
		},
		{
			name:       "not ready",
			target:     "/api/v1/recommend/1",
			engine:     &fakeEngine{recommendErr: engine.ErrNotReady},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeNotReady,
		},
		{
			name:       "non-integer id",
			target:     "/api/v1/recommend/abc",
			engine:     &fakeEngine{},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidation,
		},
		{
			name:       "bad topN",
			target:     "/api/v1/recommend/1?topN=-3",
			engine:     &fakeEngine{},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, testServer(tt.engine), http.MethodGet, tt.target, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestLoadDatasetHandler(t *testing.T) {
	eng := &fakeEngine{}
	srv := testServer(eng)

	// Without a body the configured paths apply.
	w := doRequest(t, srv, http.MethodPost, "/api/v1/dataset/load", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if eng.lastMoviesPath != "/data/movies.csv" {
		t.Errorf("moviesPath = %q, want configured default", eng.lastMoviesPath)
	}

	// A body overrides them.
	w = doRequest(t, srv, http.MethodPost, "/api/v1/dataset/load",
		`{"moviesPath":"/tmp/m.csv","ratingsPath":"/tmp/r.csv"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if eng.lastMoviesPath != "/tmp/m.csv" || eng.lastRatingsPath != "/tmp/r.csv" {
		t.Errorf("paths = %q, %q", eng.lastMoviesPath, eng.lastRatingsPath)
	}
}

func TestLoadDatasetHandlerMalformedBody(t *testing.T) {
	w := doRequest(t, testServer(&fakeEngine{}), http.MethodPost, "/api/v1/dataset/load", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPassErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeEngine
		target     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "pass in flight",
			engine:     &fakeEngine{computeErr: engine.ErrPassInFlight},
			target:     "/api/v1/similarity/compute",
			wantStatus: http.StatusConflict,
			wantCode:   codePassInFlight,
		},
		{
			name:       "missing prerequisite",
			engine:     &fakeEngine{buildErr: engine.ErrNotReady},
			target:     "/api/v1/constellations",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeNotReady,
		},
		{
			name:       "bad input data",
			engine:     &fakeEngine{loadErr: &corpus.DataError{Reason: "movies file has no rows"}},
			target:     "/api/v1/dataset/load",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeDataError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, testServer(tt.engine), http.MethodPost, tt.target, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestExportHandler(t *testing.T) {
	eng := &fakeEngine{dataset: &constellation.Dataset{
		Genres:      []constellation.CategorySummary{{Name: "Action", MovieCount: 3, ConnectionCount: 2}},
		Movies:      []constellation.MovieEntry{},
		Connections: []constellation.Connection{},
	}}

	w := doRequest(t, testServer(eng), http.MethodGet, "/api/v1/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"name":"Action"`) {
		t.Errorf("body missing genre summary: %s", w.Body.String())
	}
}

func TestExportHandlerNotReady(t *testing.T) {
	eng := &fakeEngine{exportErr: engine.ErrNotReady}
	w := doRequest(t, testServer(eng), http.MethodGet, "/api/v1/export", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	eng := &fakeEngine{status: engine.Status{Movies: 42, MatrixReady: true, Graphs: 7}}
	w := doRequest(t, testServer(eng), http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	resp := decodeEnvelope(t, w)
	raw, _ := json.Marshal(resp.Data)
	var st engine.Status
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("data is not a status: %v", err)
	}
	if st.Movies != 42 || !st.MatrixReady || st.Graphs != 7 {
		t.Errorf("status = %+v", st)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := testServer(&fakeEngine{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "upstream-id")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want upstream-id", got)
	}

	// Generated when absent.
	w2 := doRequest(t, srv, http.MethodGet, "/health", "")
	if w2.Header().Get(requestIDHeader) == "" {
		t.Error("X-Request-ID not generated")
	}
}
