package ports

import (
	"context"
	"vimeometa/internal/app/domain/table"
)

type VideosPort interface {
	FetchAll(ctx context.Context, uri string) ([]*table.Record, error)
}
