package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vimeometa/internal/app/adapters/metrics"
	"vimeometa/internal/app/domain/table"
	"vimeometa/internal/app/infrastructure/storage"
)

// FetchAll follows paging.next from uri until the last page and returns every
// record in page order. On error it returns the records gathered so far with it.
func (v *Vimeo) FetchAll(ctx context.Context, uri string) ([]*table.Record, error) {
	if uri == "" {
		return nil, ErrEmptyURI
	}

	var records []*table.Record
	visited := storage.NewCache[struct{}](0, 0)

	for page := 1; uri != ""; page++ {
		if !visited.SetIfAbsent(uri, struct{}{}) {
			err := fmt.Errorf("%w: %s already fetched", ErrPaginationLoop, uri)
			v.log.Warn("Pagination points back to a fetched page", slog.String("uri", uri), slog.Int("page", page))
			metrics.FetchErrors.WithLabelValues(ErrorKind(err)).Inc()
			return records, err
		}

		start := time.Now()

		var resp VideosResponse
		status, err := v.doVimeoRequest(ctx, uri, &resp)
		if err != nil {
			v.log.Error("Failed to fetch data", err, slog.Int("status", status), slog.Int("page", page), slog.Int("records", len(records)))
			metrics.FetchErrors.WithLabelValues(ErrorKind(err)).Inc()
			return records, err
		}

		pageRecords, err := resp.records(v.cfg.API.BaseURL + uri)
		if err != nil {
			v.log.Error("Failed to decode page records", err, slog.Int("page", page))
			metrics.FetchErrors.WithLabelValues(ErrorKind(err)).Inc()
			return records, err
		}
		records = append(records, pageRecords...)

		metrics.PageFetchTime.Observe(time.Since(start).Seconds())
		metrics.PagesFetched.Inc()
		metrics.RecordsFetched.Add(float64(len(pageRecords)))

		uri = resp.Paging.NextURI()
		v.log.Debug("Page fetched",
			slog.Int("page", page),
			slog.Int("records", len(pageRecords)),
			slog.Int("total", resp.Total),
			slog.String("next", uri),
		)
	}

	v.log.Info("Fetch completed", slog.Int("records", len(records)))
	return records, nil
}

func (r *VideosResponse) records(url string) ([]*table.Record, error) {
	out := make([]*table.Record, 0, len(r.Data))
	for i, raw := range r.Data {
		rec, err := table.ParseRecord(raw)
		if err != nil {
			return nil, &DecodeError{URL: url, Err: fmt.Errorf("data[%d]: %w", i, err)}
		}
		out = append(out, rec)
	}
	return out, nil
}
