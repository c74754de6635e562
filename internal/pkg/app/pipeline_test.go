package app

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"vimeometa/internal/app/adapters/platform/vimeo/api"
	"vimeometa/internal/app/domain/table"
	"vimeometa/internal/app/infrastructure/config"
	"vimeometa/pkg/logger"
)

type stubVideos struct {
	docs []string
	err  error
}

func (s *stubVideos) FetchAll(_ context.Context, _ string) ([]*table.Record, error) {
	out := make([]*table.Record, 0, len(s.docs))
	for _, d := range s.docs {
		r, err := table.ParseRecord([]byte(d))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, s.err
}

type captureWriter struct {
	saved  *table.Table
	rename map[string]string
	err    error
}

func (c *captureWriter) Save(t *table.Table, filename string, rename map[string]string, dir string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	out, err := t.Rename(rename)
	if err != nil {
		return "", err
	}
	c.saved = out
	c.rename = rename
	return dir + "/" + filename, nil
}

func defaultConfig() *config.Config {
	return (&config.Manager{}).GetDefault()
}

func newTestPipeline(cfg *config.Config, videos *stubVideos, w *captureWriter) *Pipeline {
	return NewPipeline(logger.New(logger.Options{Stdout: io.Discard}), cfg, videos, w)
}

func TestPipeline_Run_DefaultFilters(t *testing.T) {
	t.Parallel()

	videos := &stubVideos{docs: []string{
		`{"uri":"/videos/1","name":"a","embed":{"html":"<iframe 1>"},"parent_folder":{"name":"ward","uri":"/folders/1"}}`,
		`{"uri":"/videos/2","name":"b","embed":{"html":"<iframe 2>"},"parent_folder":{"name":"somebody","uri":"/folders/2"}}`,
		`{"uri":"/videos/3","name":"c","embed":{"html":"<iframe 3>"},"parent_folder":null}`,
		`{"uri":"/videos/4","name":"d","embed":{"html":"<iframe 4>"},"parent_folder":{"name":"whitaker","uri":"/folders/3"}}`,
	}}
	w := &captureWriter{}

	res, err := newTestPipeline(defaultConfig(), videos, w).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "output/VimeoIDs.csv", res.Path)
	assert.Equal(t, 4, res.Records)
	assert.Equal(t, 2, res.Rows)
	assert.False(t, res.Partial)

	require.NotNil(t, w.saved)
	assert.Equal(t, []string{"ID", "name", "embed"}, w.saved.Columns())
	assert.Equal(t, "/videos/1", w.saved.Rows()[0].Text("ID"))
	assert.Equal(t, "<iframe 4>", w.saved.Rows()[1].Text("embed"))
}

func TestPipeline_Run_NoAllowList(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Filter.FolderNames = nil
	cfg.Filter.DropColumns = []string{"name", "not_there"}

	videos := &stubVideos{docs: []string{
		`{"uri":"/videos/1","name":"a","parent_folder":{"name":"x"}}`,
		`{"uri":"/videos/2","name":"b"}`,
	}}
	w := &captureWriter{}

	res, err := newTestPipeline(cfg, videos, w).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, []string{"ID"}, w.saved.Columns())
}

func TestPipeline_Run_PartialFetch(t *testing.T) {
	t.Parallel()

	fetchErr := &api.APIError{Status: 503, URL: "https://api.vimeo.com/me/videos?page=2"}
	videos := &stubVideos{
		docs: []string{`{"uri":"/videos/1","parent_folder":{"name":"ward"}}`},
		err:  fetchErr,
	}
	w := &captureWriter{}

	res, err := newTestPipeline(defaultConfig(), videos, w).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Partial)
	assert.ErrorIs(t, res.FetchErr, fetchErr)
	assert.Equal(t, 1, res.Rows)
}

func TestPipeline_Run_TransportErrorIsFatal(t *testing.T) {
	t.Parallel()

	videos := &stubVideos{
		docs: []string{`{"uri":"/videos/1","parent_folder":{"name":"ward"}}`},
		err:  &api.TransportError{URL: "https://api.vimeo.com/me/videos", Err: errors.New("connection reset")},
	}
	w := &captureWriter{}

	_, err := newTestPipeline(defaultConfig(), videos, w).Run(context.Background())

	var transportErr *api.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Nil(t, w.saved, "nothing is written after a transport failure")
}

func TestPipeline_Run_WriterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("read-only file system")
	_, err := newTestPipeline(defaultConfig(), &stubVideos{}, &captureWriter{err: boom}).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_Run_EmptyFetch(t *testing.T) {
	t.Parallel()

	w := &captureWriter{}
	res, err := newTestPipeline(defaultConfig(), &stubVideos{}, w).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Rows)
	assert.Empty(t, w.saved.Columns())
}
