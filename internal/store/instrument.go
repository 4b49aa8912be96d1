package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devlinb/EscapeRoom/internal/metrics"
)

// instrumented records latency and failures of every store call.
type instrumented struct {
	next    DocumentStore
	backend string
}

// Instrument wraps ds so each operation is observed in Prometheus.
func Instrument(ds DocumentStore) DocumentStore {
	return &instrumented{next: ds, backend: ds.Backend()}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	metrics.StoreLatency.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.StoreErrors.WithLabelValues(s.backend, op).Inc()
	}
}

func (s *instrumented) Close() error    { return s.next.Close() }
func (s *instrumented) Backend() string { return s.backend }

func (s *instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ping", start, err) }(time.Now())
	return s.next.Ping(ctx)
}

func (s *instrumented) GetString(ctx context.Context, key string) (v string, err error) {
	defer func(start time.Time) { s.observe("get_string", start, err) }(time.Now())
	return s.next.GetString(ctx, key)
}

func (s *instrumented) SetString(ctx context.Context, key, value string) (err error) {
	defer func(start time.Time) { s.observe("set_string", start, err) }(time.Now())
	return s.next.SetString(ctx, key, value)
}

func (s *instrumented) SetStringIfAbsent(ctx context.Context, key, value string) (ok bool, err error) {
	defer func(start time.Time) { s.observe("set_string_nx", start, err) }(time.Now())
	return s.next.SetStringIfAbsent(ctx, key, value)
}

func (s *instrumented) GetJSON(ctx context.Context, key string, path Path) (doc json.RawMessage, err error) {
	defer func(start time.Time) { s.observe("get_json", start, err) }(time.Now())
	return s.next.GetJSON(ctx, key, path)
}

func (s *instrumented) SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) (err error) {
	defer func(start time.Time) { s.observe("set_json", start, err) }(time.Now())
	return s.next.SetJSON(ctx, key, path, value)
}
