package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goassume/internal/regress"
	"goassume/internal/report"
	"goassume/internal/store/model"
)

type fakeStore struct {
	runs []model.Run
}

func (f *fakeStore) SaveRun(ctx context.Context, run *model.Run) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit > 0 && limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func (f *fakeStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeStore) Close() error { return nil }

func testServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Report == nil {
		cfg.Report = report.New("houses", "price", regress.TaskLinear, 0.05)
	}
	if cfg.HTML == nil {
		cfg.HTML = []byte("<html><body>dash</body></html>")
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{HTML: []byte("x")})
	assert.Error(t, err)

	_, err = New(Config{Report: report.New("d", "y", regress.TaskLinear, 0.05)})
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	s := testServer(t, Config{})

	t.Run("Index", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "dash")
	})

	t.Run("Health", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("Report", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/report", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var rep report.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
		assert.Equal(t, "price", rep.Target)
	})

	t.Run("RunsWithoutStore", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRunHistoryRoutes(t *testing.T) {
	st := &fakeStore{runs: []model.Run{
		{ID: "run-1", Dataset: "houses", Target: "price"},
		{ID: "run-2", Dataset: "cars", Target: "mpg"},
	}}
	s := testServer(t, Config{Store: st})

	t.Run("List", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs?limit=1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Runs []model.Run `json:"runs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Len(t, body.Runs, 1)
	})

	t.Run("Detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/run-2", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var run model.Run
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
		assert.Equal(t, "mpg", run.Target)
	})

	t.Run("DetailMissing", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := testServer(t, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
