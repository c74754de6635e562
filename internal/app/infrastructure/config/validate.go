package config

import (
	"net/url"
	"strings"
	"vimeometa/pkg/logger"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	if _, ok := logger.ParseLevel(cfg.App.LogLevel); cfg.App.LogLevel != "" && !ok {
		return invalid("app.log_level", "must be one of %s; got %s", strings.Join(logger.LevelNames(), ", "), cfg.App.LogLevel)
	}

	// api
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("api.base_url", "must be an absolute http(s) url; got %q", cfg.API.BaseURL)
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.Accept == "" {
		return invalid("api.accept", "is required")
	}
	if cfg.API.InitialURI == "" {
		return invalid("api.initial_uri", "is required")
	}
	if !strings.HasPrefix(cfg.API.InitialURI, "/") {
		return invalid("api.initial_uri", "must be a relative uri starting with /; got %q", cfg.API.InitialURI)
	}
	if cfg.API.TimeoutSecs < 1 || cfg.API.TimeoutSecs > 600 {
		return invalid("api.timeout_secs", "must be [1,600]")
	}

	// proxy
	if cfg.Proxy != nil && cfg.Proxy.Address != "" && (cfg.Proxy.Port < 1 || cfg.Proxy.Port > 65535) {
		return invalid("proxy.port", "must be [1,65535]")
	}

	// limiter
	if (cfg.Limiter.Requests != 0 && cfg.Limiter.Per == 0) || (cfg.Limiter.Requests == 0 && cfg.Limiter.Per != 0) {
		return invalid("limiter", "requests and per must both be set or both be zero")
	}
	if cfg.Limiter.Requests < 0 || cfg.Limiter.Per < 0 {
		return invalid("limiter", "requests and per must not be negative")
	}

	// retry
	if cfg.Retry.MaxRetries < 0 || cfg.Retry.MaxRetries > 10 {
		return invalid("retry.max_retries", "must be [0,10]")
	}
	if cfg.Retry.MaxBackoffSecs < 0 || cfg.Retry.MaxBackoffSecs > 600 {
		return invalid("retry.max_backoff_secs", "must be [0,600]")
	}

	// filter
	if len(cfg.Filter.FolderNames) > 0 && cfg.Filter.FolderColumn == "" {
		return invalid("filter.folder_column", "is required when filter.folder_names is set")
	}
	if cfg.Filter.FlattenSeparator == "" {
		cfg.Filter.FlattenSeparator = "_"
	}

	// output
	if cfg.Output.Filename == "" {
		return invalid("output.filename", "is required")
	}
	if strings.ContainsAny(cfg.Output.Filename, `/\`) {
		return invalid("output.filename", "must not contain path separators; use output.dir")
	}
	if cfg.Output.Rename == nil {
		cfg.Output.Rename = make(map[string]string)
	}
	for from, to := range cfg.Output.Rename {
		if from == "" || to == "" {
			return invalid("output.rename", "names must not be empty")
		}
	}

	return nil
}
