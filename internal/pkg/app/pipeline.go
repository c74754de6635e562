package app

import (
	"context"
	"fmt"
	"log/slog"
	"vimeometa/internal/app/adapters/metrics"
	"vimeometa/internal/app/adapters/platform/vimeo/api"
	"vimeometa/internal/app/domain/table"
	"vimeometa/internal/app/infrastructure/config"
	"vimeometa/internal/app/ports"
	"vimeometa/pkg/logger"
)

type Result struct {
	Path    string
	Records int
	Rows    int
	Partial bool
	// FetchErr is the contained error that ended a partial fetch.
	FetchErr error
}

type Pipeline struct {
	log    logger.Logger
	cfg    *config.Config
	videos ports.VideosPort
	writer ports.TableWriterPort
}

func NewPipeline(log logger.Logger, cfg *config.Config, videos ports.VideosPort, writer ports.TableWriterPort) *Pipeline {
	return &Pipeline{
		log:    log,
		cfg:    cfg,
		videos: videos,
		writer: writer,
	}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	records, err := p.videos.FetchAll(ctx, p.cfg.API.InitialURI)
	if err != nil {
		if !api.IsContained(err) {
			return nil, fmt.Errorf("fetch videos: %w", err)
		}
		res.Partial = true
		res.FetchErr = err
		p.log.Warn("Fetch stopped early, continuing with partial data",
			slog.String("error", err.Error()),
			slog.String("kind", api.ErrorKind(err)),
			slog.Int("records", len(records)),
		)
	}
	res.Records = len(records)

	cleaned := p.Transform(records)

	path, err := p.writer.Save(cleaned, p.cfg.Output.Filename, p.cfg.Output.Rename, p.cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("save table: %w", err)
	}

	res.Path = path
	res.Rows = cleaned.Len()
	return res, nil
}

// Transform flattens records and applies the configured row and column filters.
func (p *Pipeline) Transform(records []*table.Record) *table.Table {
	flat := table.Flatten(records, p.cfg.Filter.FlattenSeparator)
	cleaned := flat.Clean(p.columnsToDrop(flat), p.rowsToDrop())
	metrics.RowsDropped.Add(float64(flat.Len() - cleaned.Len()))

	p.log.Debug("Table cleaned",
		slog.Int("rows_before", flat.Len()),
		slog.Int("rows_after", cleaned.Len()),
		slog.Any("columns", cleaned.Columns()),
	)
	return cleaned
}

func (p *Pipeline) columnsToDrop(t *table.Table) []string {
	var drop []string
	if p.cfg.Filter.DropColumnsContaining != "" {
		drop = append(drop, t.ColumnsContaining(p.cfg.Filter.DropColumnsContaining)...)
	}

	if missing := t.MissingColumns(p.cfg.Filter.DropColumns); len(missing) > 0 {
		p.log.Debug("Columns to drop not present in table", slog.Any("columns", missing))
	}
	return append(drop, p.cfg.Filter.DropColumns...)
}

// rowsToDrop removes rows whose folder is not allow-listed. No allow-list keeps every row.
func (p *Pipeline) rowsToDrop() table.RowPredicate {
	if len(p.cfg.Filter.FolderNames) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(p.cfg.Filter.FolderNames))
	for _, name := range p.cfg.Filter.FolderNames {
		allowed[name] = struct{}{}
	}
	column := p.cfg.Filter.FolderColumn

	return func(row *table.Record) bool {
		_, ok := allowed[row.Text(column)]
		return !ok
	}
}
