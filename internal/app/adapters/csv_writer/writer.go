package csv_writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"vimeometa/internal/app/adapters/metrics"
	"vimeometa/internal/app/domain/table"
	"vimeometa/pkg/logger"
)

type Writer struct {
	log logger.Logger
}

func New(log logger.Logger) *Writer {
	return &Writer{log: log}
}

// Save renames columns, creates dir when needed and writes t to dir/filename,
// replacing any existing file. It returns the path written.
func (w *Writer) Save(t *table.Table, filename string, rename map[string]string, dir string) (string, error) {
	if missing := t.MissingColumns(sortedKeys(rename)); len(missing) > 0 {
		w.log.Debug("Rename sources not present in table", slog.Any("columns", missing))
	}

	out, err := t.Rename(rename)
	if err != nil {
		return "", fmt.Errorf("rename columns: %w", err)
	}

	path := filename
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
		path = filepath.Join(dir, filename)
	}

	if err := writeAtomic(path, out); err != nil {
		return "", err
	}

	metrics.RowsWritten.Set(float64(out.Len()))
	w.log.Info("Table saved", slog.String("path", path), slog.Int("rows", out.Len()), slog.Any("columns", out.Columns()))
	return path, nil
}

// Encode writes the header and one line per row. Missing and null cells are empty.
// A table without columns encodes to nothing.
func Encode(dst io.Writer, t *table.Table) error {
	columns := t.Columns()
	if len(columns) == 0 {
		return nil
	}

	cw := csv.NewWriter(dst)
	if err := cw.Write(columns); err != nil {
		return err
	}

	line := make([]string, len(columns))
	for _, row := range t.Rows() {
		for i, c := range columns {
			line[i] = row.Text(c)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeAtomic(path string, t *table.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &FilesystemError{Op: "create", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(op string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &FilesystemError{Op: op, Path: path, Err: err}
	}

	if err := Encode(tmp, t); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &FilesystemError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &FilesystemError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
