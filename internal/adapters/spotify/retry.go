package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultBackoffMs = 500

// doRequestWithRetry sends a GET request, retrying transport errors, 429 and 5xx
// up to c.maxRetries attempts in total. Retry-After overrides exponential backoff.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	attempts := max(c.maxRetries, 1)
	baseBackoff := c.baseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Duration(defaultBackoffMs) * time.Millisecond
	}

	ctx := req.Context()
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("spotify adapter: request canceled: %w", err)
		}

		// #nosec G107 -- URL built from the configured API base URL
		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		last := attempt == attempts-1
		if last {
			if err != nil {
				return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", attempts, err)
			}
			status := resp.StatusCode
			_ = resp.Body.Close()
			return nil, fmt.Errorf("spotify adapter: request failed after %d attempts: %w", attempts,
				&StatusError{Op: req.URL.Path, StatusCode: status})
		}

		ev := c.log.Warn().Int("attempt", attempt+1).Int("max_attempts", attempts)
		if err != nil {
			ev.Err(err).Msg("retrying catalog request after error")
		} else {
			ev.Int("status", resp.StatusCode).Msg("retrying catalog request after status")
			_ = resp.Body.Close()
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(retryAfter); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("spotify adapter: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
