package metrics

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTextfile(t *testing.T) {
	RowsWritten.Set(7)
	LastRunSuccess.Set(1)
	FetchErrors.WithLabelValues("api").Inc()

	path := filepath.Join(t.TempDir(), "vimeometa.prom")
	require.NoError(t, WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(raw)
	assert.Contains(t, out, "vimeometa_rows_written 7")
	assert.Contains(t, out, "vimeometa_last_run_success 1")
	assert.Contains(t, out, `vimeometa_fetch_errors_total{kind="api"}`)
}
