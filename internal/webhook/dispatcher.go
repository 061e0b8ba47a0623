// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// ErrQueueFull is returned when an event cannot be queued.
var ErrQueueFull = errors.New("webhook queue full")

// Config holds dispatcher configuration.
type Config struct {
	URL    string
	Secret string

	Workers        int
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RequestTimeout time.Duration

	// AllowPrivateTargets permits loopback and private endpoints, for
	// development and tests.
	AllowPrivateTargets bool
}

// DefaultConfig returns default dispatcher configuration without an endpoint.
func DefaultConfig() Config {
	return Config{
		Workers:        3,
		QueueSize:      100,
		MaxAttempts:    5,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     5 * time.Minute,
		RequestTimeout: 30 * time.Second,
	}
}

// Dispatcher queues events and posts them from a pool of workers. A nil
// *Dispatcher, or one without a URL, drops every event.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	queue  chan *delivery

	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// delivery is one queued event.
type delivery struct {
	id      string
	event   string
	payload []byte
}

// NewDispatcher creates a dispatcher. Zero config values take defaults.
func NewDispatcher(cfg Config, logger *slog.Logger) *Dispatcher {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if !cfg.AllowPrivateTargets {
		transport.DialContext = publicDialContext(&net.Dialer{Timeout: 10 * time.Second})
	}

	return &Dispatcher{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: transport,
		},
		logger: logger,
		queue:  make(chan *delivery, cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Enabled reports whether events are delivered anywhere.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.cfg.URL != ""
}

// Start starts the delivery workers.
func (d *Dispatcher) Start(ctx context.Context) {
	if !d.Enabled() {
		return
	}

	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.logger.Info("starting webhook dispatcher", "workers", d.cfg.Workers)

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

// Stop stops the workers and waits for in-flight deliveries to return.
// Queued deliveries that have not started are dropped.
func (d *Dispatcher) Stop() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.done)
	d.wg.Wait()
	d.logger.Info("webhook dispatcher stopped")
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.done:
			return
		case <-ctx.Done():
			return
		case dl := <-d.queue:
			d.logger.Debug("webhook worker processing delivery",
				"worker_id", id,
				"delivery_id", dl.id,
				"event", dl.event)
			d.process(ctx, dl)
		}
	}
}

// Dispatch serializes event and queues it without blocking.
func (d *Dispatcher) Dispatch(ctx context.Context, event *Event) error {
	if !d.Enabled() {
		return nil
	}

	d.mu.RLock()
	running := d.running
	d.mu.RUnlock()
	if !running {
		d.logger.Warn("dispatcher not running, dropping event", "event_type", event.Type)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", event.Type, err)
	}

	dl := &delivery{id: event.ID, event: event.Type, payload: payload}
	select {
	case d.queue <- dl:
		d.logger.Debug("delivery queued", "delivery_id", dl.id, "event_type", dl.event)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		d.logger.Warn("delivery queue full, dropping event", "delivery_id", dl.id, "event_type", dl.event)
		return ErrQueueFull
	}
}

// DispatchEvent wraps data in a new event and dispatches it.
func (d *Dispatcher) DispatchEvent(ctx context.Context, eventType string, data any) error {
	return d.Dispatch(ctx, NewEvent(eventType, data))
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature in constant time.
func VerifySignature(payload []byte, signature, secret string) bool {
	return hmac.Equal([]byte(signature), []byte(GenerateSignature(payload, secret)))
}
