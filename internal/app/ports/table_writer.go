package ports

import "vimeometa/internal/app/domain/table"

type TableWriterPort interface {
	Save(t *table.Table, filename string, rename map[string]string, dir string) (string, error)
}
