package smtgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// metrics/prometheus package for a Prometheus implementation.
type MetricsCollector interface {
	// RecordInit is called after each Init attempt.
	RecordInit(duration time.Duration, err error)

	// RecordTranslate is called after each translate request.
	// nbest is the requested list size, err is nil if successful.
	RecordTranslate(nbest int, duration time.Duration, err error)

	// RecordSessionCreate is called after each CreateSession.
	RecordSessionCreate(err error)

	// RecordSessionDestroy is called after each DestroySession.
	RecordSessionDestroy(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInit(time.Duration, error)           {}
func (NoopMetricsCollector) RecordTranslate(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSessionCreate(error)                 {}
func (NoopMetricsCollector) RecordSessionDestroy(error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InitCount           atomic.Int64
	InitErrors          atomic.Int64
	TranslateCount      atomic.Int64
	TranslateErrors     atomic.Int64
	TranslateTotalNanos atomic.Int64
	SessionsCreated     atomic.Int64
	SessionCreateErrors atomic.Int64
	SessionsDestroyed   atomic.Int64
	SessionDestroyErrs  atomic.Int64
}

// RecordInit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInit(_ time.Duration, err error) {
	b.InitCount.Add(1)
	if err != nil {
		b.InitErrors.Add(1)
	}
}

// RecordTranslate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTranslate(_ int, duration time.Duration, err error) {
	b.TranslateCount.Add(1)
	b.TranslateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TranslateErrors.Add(1)
	}
}

// RecordSessionCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSessionCreate(err error) {
	if err != nil {
		b.SessionCreateErrors.Add(1)
		return
	}
	b.SessionsCreated.Add(1)
}

// RecordSessionDestroy implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSessionDestroy(err error) {
	if err != nil {
		b.SessionDestroyErrs.Add(1)
		return
	}
	b.SessionsDestroyed.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitCount:           b.InitCount.Load(),
		InitErrors:          b.InitErrors.Load(),
		TranslateCount:      b.TranslateCount.Load(),
		TranslateErrors:     b.TranslateErrors.Load(),
		TranslateAvgNanos:   b.getAvgTranslateNanos(),
		SessionsCreated:     b.SessionsCreated.Load(),
		SessionCreateErrors: b.SessionCreateErrors.Load(),
		SessionsDestroyed:   b.SessionsDestroyed.Load(),
		SessionDestroyErrs:  b.SessionDestroyErrs.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTranslateNanos() int64 {
	count := b.TranslateCount.Load()
	if count == 0 {
		return 0
	}
	return b.TranslateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InitCount           int64
	InitErrors          int64
	TranslateCount      int64
	TranslateErrors     int64
	TranslateAvgNanos   int64
	SessionsCreated     int64
	SessionCreateErrors int64
	SessionsDestroyed   int64
	SessionDestroyErrs  int64
}
