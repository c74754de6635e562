package api

import (
	"context"
	"encoding/json"
	"golang.org/x/time/rate"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"vimeometa/internal/app/infrastructure/config"
	"vimeometa/pkg/logger"
)

const baseBackoff = time.Second

type Vimeo struct {
	log     logger.Logger
	cfg     *config.Config
	client  *http.Client
	limiter *rate.Limiter
	headers http.Header

	backoff    time.Duration
	maxBackoff time.Duration
}

func NewVimeo(log logger.Logger, cfg *config.Config, client *http.Client) *Vimeo {
	v := &Vimeo{
		log:        log,
		cfg:        cfg,
		client:     client,
		limiter:    cfg.Limiter.Rate(),
		backoff:    baseBackoff,
		maxBackoff: cfg.Retry.MaxBackoff(),
		headers:    make(http.Header),
	}

	v.headers.Set("Accept", cfg.API.Accept)
	v.headers.Set("Authorization", "bearer "+cfg.Token)

	return v
}

// doVimeoRequest GETs uri relative to the API base and decodes a 200 body into
// target. Transport failures and 429s are retried up to retry.max_retries times.
func (v *Vimeo) doVimeoRequest(ctx context.Context, uri string, target any) (int, error) {
	reqURL := v.cfg.API.BaseURL + uri

	var lastErr error
	for attempt := 0; attempt <= v.cfg.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := v.retryWait(attempt, lastErr)
			v.log.Warn("Retrying Vimeo request", slog.Int("attempt", attempt), slog.String("wait", wait.String()), slog.String("url", reqURL))

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return 0, &TransportError{URL: reqURL, Err: ctx.Err()}
			}
		}

		if err := v.limiter.Wait(ctx); err != nil {
			return 0, &TransportError{URL: reqURL, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			v.log.Error("Failed to create HTTP request", err, slog.String("url", reqURL))
			return 0, &TransportError{URL: reqURL, Err: err}
		}
		req.Header = v.headers.Clone()

		v.log.Debug("Sending Vimeo request", slog.Int("attempt", attempt+1), slog.String("url", reqURL))

		resp, err := v.client.Do(req)
		if err != nil {
			v.log.Error("HTTP request failed", err, slog.Int("attempt", attempt+1), slog.String("url", reqURL))
			lastErr = &TransportError{URL: reqURL, Err: err}
			if ctx.Err() != nil {
				return 0, lastErr
			}
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		if cerr := resp.Body.Close(); cerr != nil {
			v.log.Error("Failed to close response body", cerr)
		}
		if err != nil {
			v.log.Error("Failed to read response body", err, slog.Int("status", resp.StatusCode), slog.String("url", reqURL))
			lastErr = &TransportError{URL: reqURL, Err: err}
			if ctx.Err() != nil {
				return 0, lastErr
			}
			continue
		}

		v.log.Trace("Response received", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		switch resp.StatusCode {
		case http.StatusOK:
			if err := json.Unmarshal(raw, target); err != nil {
				v.log.Error("Failed to decode response JSON", err, slog.Int("status", resp.StatusCode), slog.String("url", reqURL))
				return resp.StatusCode, &DecodeError{URL: reqURL, Err: err}
			}
			return resp.StatusCode, nil

		case http.StatusTooManyRequests:
			lastErr = &rateLimited{
				APIError: newAPIError(resp.StatusCode, reqURL, raw),
				wait:     calcWaitDuration(resp.Header),
			}
			v.log.Warn("Rate limit hit", slog.Int("attempt", attempt+1), slog.String("url", reqURL))
			continue

		default:
			return resp.StatusCode, newAPIError(resp.StatusCode, reqURL, raw)
		}
	}

	if rl, ok := lastErr.(*rateLimited); ok {
		return rl.Status, rl.APIError
	}
	return 0, lastErr
}

// rateLimited carries the server-suggested wait of a 429 between attempts.
type rateLimited struct {
	*APIError
	wait time.Duration
}

func (v *Vimeo) retryWait(attempt int, lastErr error) time.Duration {
	wait := time.Duration(attempt) * v.backoff
	if rl, ok := lastErr.(*rateLimited); ok && rl.wait > 0 {
		wait = rl.wait
	}
	if v.maxBackoff > 0 && wait > v.maxBackoff {
		wait = v.maxBackoff
	}
	return wait
}

func newAPIError(status int, url string, raw []byte) *APIError {
	apiErr := &APIError{Status: status, URL: url}

	var body vimeoAPIError
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		if apiErr.Message == "" {
			apiErr.Message = body.DeveloperMessage
		}
	}
	return apiErr
}

// calcWaitDuration reads Retry-After (seconds) or X-RateLimit-Reset (RFC 3339 or unix seconds).
func calcWaitDuration(h http.Header) time.Duration {
	if s := h.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	reset := h.Get("X-RateLimit-Reset")
	if reset == "" {
		return 0
	}

	var resetTime time.Time
	if ts, err := strconv.ParseInt(reset, 10, 64); err == nil {
		resetTime = time.Unix(ts, 0)
	} else if t, err := time.Parse(time.RFC3339, reset); err == nil {
		resetTime = t
	} else {
		return 0
	}

	now := time.Now()
	if resetTime.Before(now) {
		return 0
	}
	return resetTime.Sub(now)
}
