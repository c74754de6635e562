package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the job metrics only, so the textfile export stays small.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// PagesFetched - успешно полученные страницы.
	PagesFetched = factory.NewCounter(prometheus.CounterOpts{
		Name: "vimeometa_pages_fetched_total",
		Help: "Total number of API pages fetched successfully",
	})

	// RecordsFetched - записи из всех страниц.
	RecordsFetched = factory.NewCounter(prometheus.CounterOpts{
		Name: "vimeometa_records_fetched_total",
		Help: "Total number of records returned by the API",
	})

	// FetchErrors - ошибки получения страниц по типу.
	FetchErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vimeometa_fetch_errors_total",
			Help: "Number of page fetch errors by kind",
		}, []string{"kind"},
	)

	// PageFetchTime - время получения одной страницы.
	PageFetchTime = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vimeometa_page_fetch_seconds",
			Help:    "Time to fetch and decode one API page",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// RowsDropped - строки, отброшенные фильтром.
	RowsDropped = factory.NewCounter(prometheus.CounterOpts{
		Name: "vimeometa_rows_dropped_total",
		Help: "Total number of rows removed by the row filter",
	})

	// RowsWritten - строки в последнем файле.
	RowsWritten = factory.NewGauge(prometheus.GaugeOpts{
		Name: "vimeometa_rows_written",
		Help: "Number of data rows in the last written file",
	})

	// LastRunTimestamp - время окончания последнего запуска (Unix timestamp).
	LastRunTimestamp = factory.NewGauge(prometheus.GaugeOpts{
		Name: "vimeometa_last_run_timestamp_seconds",
		Help: "End time of the last run as Unix timestamp",
	})

	// LastRunSuccess - завершился ли запуск без ошибок (1) или нет (0).
	LastRunSuccess = factory.NewGauge(prometheus.GaugeOpts{
		Name: "vimeometa_last_run_success",
		Help: "Whether the last run completed with a full fetch (1) or not (0)",
	})
)

// WriteTextfile dumps the registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
