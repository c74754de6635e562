package config

import (
	"golang.org/x/time/rate"
	"time"
)

type Config struct {
	App     App     `json:"app"`
	API     API     `json:"api"`
	Proxy   *Proxy  `json:"proxy"`
	Limiter Limiter `json:"limiter"`
	Retry   Retry   `json:"retry"`
	Filter  Filter  `json:"filter"`
	Output  Output  `json:"output"`
	Token   string  `json:"-"` // берётся из окружения, в файл не пишется
}

type App struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

type API struct {
	BaseURL     string `json:"base_url"`
	Accept      string `json:"accept"`
	InitialURI  string `json:"initial_uri"`
	TimeoutSecs int    `json:"timeout_secs"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Limiter struct {
	Requests int           `json:"requests"` // сколько запросов
	Per      time.Duration `json:"per"`      // за какое время
}

// Rate builds the limiter; an unset limiter allows every request.
func (l Limiter) Rate() *rate.Limiter {
	if l.Requests <= 0 || l.Per <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(l.Per/time.Duration(l.Requests)), l.Requests)
}

type Retry struct {
	MaxRetries     int `json:"max_retries"`
	MaxBackoffSecs int `json:"max_backoff_secs"`
}

type Filter struct {
	FolderColumn          string   `json:"folder_column"`
	FolderNames           []string `json:"folder_names"`
	DropColumnsContaining string   `json:"drop_columns_containing"`
	DropColumns           []string `json:"drop_columns"`
	FlattenSeparator      string   `json:"flatten_separator"`
}

type Output struct {
	Dir         string            `json:"dir"`
	Filename    string            `json:"filename"`
	Rename      map[string]string `json:"rename"`
	MetricsFile string            `json:"metrics_file"`
}

func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

func (r Retry) MaxBackoff() time.Duration {
	return time.Duration(r.MaxBackoffSecs) * time.Second
}
