package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/league/internal/app"
	internalcommon "github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/server"
	"github.com/bobmcallan/league/tests/common"
)

// Env is an in-process league server backed by the shared SurrealDB container.
type Env struct {
	t          *testing.T
	app        *app.App
	server     *httptest.Server
	ResultsDir string
}

// NewEnv starts a league server on a fresh SurrealDB database.
// Skipped unless LEAGUE_TEST_DOCKER=true.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	if os.Getenv("LEAGUE_TEST_DOCKER") != "true" {
		t.Skip("Docker tests disabled (set LEAGUE_TEST_DOCKER=true to enable)")
		return nil
	}

	sc := common.StartSurrealDB(t)

	// Results directory: {datetime}-{test-name}
	datetime := time.Now().Format("20060102-150405")
	resultsDir := filepath.Join(findProjectRoot(), "tests", "results", datetime+"-"+t.Name())
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		t.Fatalf("Failed to create results dir: %v", err)
	}

	config := internalcommon.NewDefaultConfig()
	config.Environment = "test"
	config.Storage.Backend = "surrealdb"
	config.Storage.Address = sc.Address()
	config.Storage.Namespace = "league_test"
	config.Storage.Database = fmt.Sprintf("api_%s_%d",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()), time.Now().UnixNano()%100000)
	config.Recorder.Enabled = false
	config.Recorder.MinSpacing = "0s"
	config.Logging.Level = "disabled"

	a, err := app.NewAppWithConfig(config)
	if err != nil {
		t.Fatalf("Failed to start app: %v", err)
	}

	env := &Env{
		t:          t,
		app:        a,
		server:     httptest.NewServer(server.NewServer(a).Handler()),
		ResultsDir: resultsDir,
	}
	t.Logf("League server started (database: %s)", config.Storage.Database)
	return env
}

// Cleanup stops the server and closes storage.
func (e *Env) Cleanup() {
	if e == nil {
		return
	}
	if e.server != nil {
		e.server.Close()
	}
	if e.app != nil {
		e.app.Close()
	}
}

// URL returns the base URL of the test server.
func (e *Env) URL() string {
	return e.server.URL
}

// HTTPGet sends a GET request to the test server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.server.URL + path)
}

// HTTPPost sends a JSON POST request to the test server.
func (e *Env) HTTPPost(path string, body interface{}) (*http.Response, error) {
	return e.HTTPRequest(http.MethodPost, path, body)
}

// HTTPPut sends a JSON PUT request to the test server.
func (e *Env) HTTPPut(path string, body interface{}) (*http.Response, error) {
	return e.HTTPRequest(http.MethodPut, path, body)
}

// HTTPRequest sends a request with an optional JSON body.
func (e *Env) HTTPRequest(method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return http.DefaultClient.Do(req)
}

// SaveResult writes a test artifact into the results directory.
func (e *Env) SaveResult(name string, data []byte) error {
	return os.WriteFile(filepath.Join(e.ResultsDir, name), data, 0644)
}

// findProjectRoot walks up from the working directory to the go.mod.
func findProjectRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
