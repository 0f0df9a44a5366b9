// internal/app/system/timeouts/timeouts.go
//
// Package timeouts provides centralized timeout values for handler
// operations. Use with context.WithTimeout around database calls.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads
//   - Medium: list queries and simple writes
//   - Long: multi-collection aggregations (the search pipelines)
//   - Batch: CSV exports and eligibility recomputation
package timeouts

import (
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 120 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
	batch  = DefaultBatch
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return ping }

// Short returns the timeout for single-document reads.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }

// Long returns the timeout for multi-collection aggregations.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return long }

// Batch returns the timeout for exports and recomputation jobs.
func Batch() time.Duration { mu.RLock(); defer mu.RUnlock(); return batch }

// Config holds timeout overrides. Zero values keep current settings.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

// Configure applies non-zero overrides. Call during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
	if cfg.Batch > 0 {
		batch = cfg.Batch
	}
}

// Reset restores defaults. Useful for testing.
func Reset() {
	Configure(Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	})
}
