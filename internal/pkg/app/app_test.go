package app

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"vimeometa/internal/app/adapters/platform/vimeo/api"
	"vimeometa/internal/app/infrastructure/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type route struct {
	status int
	body   string
}

type fakeAPI struct {
	mu    sync.Mutex
	hits  []string
	auth  []string
	pages map[string]route
}

func newFakeAPI(t *testing.T, pages map[string]route) (*fakeAPI, *httptest.Server) {
	t.Helper()

	f := &fakeAPI{pages: pages}
	r := gin.New()
	r.NoRoute(func(c *gin.Context) {
		uri := c.Request.URL.RequestURI()

		f.mu.Lock()
		f.hits = append(f.hits, uri)
		f.auth = append(f.auth, c.GetHeader("Authorization"))
		p, ok := f.pages[uri]
		f.mu.Unlock()

		if !ok {
			p = route{status: http.StatusNotFound, body: `{"error":"not found"}`}
		}
		c.Data(p.status, "application/json", []byte(p.body))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

// writeConfig writes a config.json pointing at baseURL and returns its path and the output dir.
func writeConfig(t *testing.T, baseURL string, modify func(cfg *config.Config)) (string, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := (&config.Manager{}).GetDefault()
	cfg.App.LogFile = ""
	cfg.API.BaseURL = baseURL
	cfg.API.InitialURI = "/me/videos"
	cfg.API.TimeoutSecs = 2
	cfg.Output.Dir = filepath.Join(dir, "output")
	if modify != nil {
		modify(cfg)
	}

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path, cfg.Output.Dir
}

func runOptions(configPath string) Options {
	return Options{
		ConfigPath: configPath,
		EnvPath:    filepath.Join(filepath.Dir(configPath), ".env"),
		Stdout:     &bytes.Buffer{},
	}
}

func TestRun_TwoPagesFiltered(t *testing.T) {
	t.Setenv(config.TokenEnv, "secret")

	f, srv := newFakeAPI(t, map[string]route{
		"/me/videos": {http.StatusOK, `{"data":[{"uri":"/videos/1","parent_folder":{"name":"ward"}}],"paging":{"next":"/page2"}}`},
		"/page2":     {http.StatusOK, `{"data":[{"uri":"/videos/2","parent_folder":{"name":"other"}}],"paging":{"next":null}}`},
	})
	cfgPath, outDir := writeConfig(t, srv.URL, func(cfg *config.Config) {
		cfg.Filter.FolderNames = []string{"ward"}
	})

	res, err := Run(context.Background(), runOptions(cfgPath))
	require.NoError(t, err)

	assert.Equal(t, []string{"/me/videos", "/page2"}, f.requests())
	assert.Equal(t, []string{"bearer secret", "bearer secret"}, f.auth)
	assert.Equal(t, filepath.Join(outDir, "VimeoIDs.csv"), res.Path)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.Rows)
	assert.False(t, res.Partial)

	raw, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "ID\n/videos/1\n", string(raw))
}

func TestRun_PartialFetchStillWrites(t *testing.T) {
	t.Setenv(config.TokenEnv, "secret")

	_, srv := newFakeAPI(t, map[string]route{
		"/me/videos": {http.StatusOK, `{"data":[{"uri":"/videos/1","parent_folder":{"name":"ward"}}],"paging":{"next":"/page2"}}`},
		"/page2":     {http.StatusInternalServerError, `{"error":"Something strange occurred."}`},
	})
	cfgPath, outDir := writeConfig(t, srv.URL, func(cfg *config.Config) {
		cfg.Output.MetricsFile = filepath.Join(filepath.Dir(cfg.Output.Dir), "vimeometa.prom")
	})

	res, err := Run(context.Background(), runOptions(cfgPath))
	require.NoError(t, err)
	assert.True(t, res.Partial)

	var apiErr *api.APIError
	require.ErrorAs(t, res.FetchErr, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	raw, err := os.ReadFile(filepath.Join(outDir, "VimeoIDs.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ID\n/videos/1\n", string(raw))

	prom, err := os.ReadFile(filepath.Join(filepath.Dir(outDir), "vimeometa.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "vimeometa_last_run_success 0")
}

func TestRun_TransportFailureWritesNothing(t *testing.T) {
	t.Setenv(config.TokenEnv, "secret")

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	cfgPath, outDir := writeConfig(t, deadURL, nil)

	_, err := Run(context.Background(), runOptions(cfgPath))

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_MissingToken(t *testing.T) {
	t.Setenv(config.TokenEnv, "")

	f, srv := newFakeAPI(t, nil)
	cfgPath, outDir := writeConfig(t, srv.URL, nil)

	_, err := Run(context.Background(), runOptions(cfgPath))
	assert.ErrorIs(t, err, config.ErrMissingToken)
	assert.Empty(t, f.requests(), "no request is sent without a token")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_TokenFromEnvFile(t *testing.T) {
	t.Setenv(config.TokenEnv, "")
	require.NoError(t, os.Unsetenv(config.TokenEnv))

	f, srv := newFakeAPI(t, map[string]route{
		"/me/videos": {http.StatusOK, `{"data":[],"paging":{"next":null}}`},
	})
	cfgPath, _ := writeConfig(t, srv.URL, nil)
	opts := runOptions(cfgPath)
	require.NoError(t, os.WriteFile(opts.EnvPath, []byte("VIMEO_TOKEN=from-file\n"), 0600))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, res.Rows)
	assert.Equal(t, []string{"bearer from-file"}, f.auth)

	raw, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Empty(t, raw, "no records means no header line either")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"timeout_secs":-5}}`), 0644))

	_, err := Run(context.Background(), runOptions(path))

	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api.timeout_secs", cfgErr.Field)
}
