// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Delivery headers.
const (
	HeaderSignature  = "X-Webhook-Signature"
	HeaderEvent      = "X-Webhook-Event"
	HeaderDeliveryID = "X-Webhook-Delivery-ID"

	userAgent      = "AirdropsHunter-Webhook/1.0"
	maxResponseLen = 10 * 1024
)

// result describes one delivery attempt.
type result struct {
	statusCode  int
	err         error
	shouldRetry bool
}

// process attempts the delivery until it succeeds, fails permanently, or
// runs out of attempts. Retries wait with exponential backoff.
func (d *Dispatcher) process(ctx context.Context, dl *delivery) {
	for attempt := 1; ; attempt++ {
		res := d.attempt(ctx, dl)
		if res.err == nil {
			d.logger.Info("webhook delivered",
				"delivery_id", dl.id,
				"event", dl.event,
				"status_code", res.statusCode,
				"attempt", attempt)
			return
		}

		if !res.shouldRetry || attempt >= d.cfg.MaxAttempts {
			d.logger.Warn("webhook delivery failed",
				"delivery_id", dl.id,
				"event", dl.event,
				"attempts", attempt,
				"error", res.err)
			return
		}

		backoff := calculateBackoff(attempt, d.cfg.InitialBackoff, d.cfg.MaxBackoff)
		d.logger.Info("webhook delivery scheduled for retry",
			"delivery_id", dl.id,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", res.err)

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-d.done:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// attempt performs one HTTP POST.
func (d *Dispatcher) attempt(ctx context.Context, dl *delivery) result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(dl.payload))
	if err != nil {
		return result{err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderSignature, GenerateSignature(dl.payload, d.cfg.Secret))
	req.Header.Set(HeaderEvent, dl.event)
	req.Header.Set(HeaderDeliveryID, dl.id)

	resp, err := d.client.Do(req)
	if err != nil {
		return result{err: fmt.Errorf("request failed: %w", err), shouldRetry: true}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseLen))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return result{statusCode: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return result{
			statusCode:  resp.StatusCode,
			err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			shouldRetry: resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests,
		}
	default:
		return result{
			statusCode:  resp.StatusCode,
			err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			shouldRetry: true,
		}
	}
}

// calculateBackoff returns initial * 2^(attempt-1), capped at maxBackoff.
func calculateBackoff(attempt int, initial, maxBackoff time.Duration) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	backoff := initial
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return min(backoff, maxBackoff)
}
