// Package stock tracks per-product inventory from a CSV feed.
package stock

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Monitor loads a CSV inventory feed (product_id,name,stock,updated_at) and
// reloads it on a fixed interval so the pipeline sees stock changes made by
// the back office without a restart.
type Monitor struct {
	path     string
	interval time.Duration

	mu    sync.RWMutex
	units map[string]int
}

func NewMonitor(path string, interval time.Duration) *Monitor {
	return &Monitor{
		path:     path,
		interval: interval,
		units:    make(map[string]int),
	}
}

// Load reads the feed once. Call it at startup so the first turns already
// see inventory; Run keeps it fresh afterwards.
func (m *Monitor) Load() error {
	f, err := os.Open(m.path)
	if err != nil {
		return fmt.Errorf("failed to open stock feed: %w", err)
	}
	defer f.Close()

	units, err := parseFeed(f)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.units = units
	m.mu.Unlock()
	return nil
}

// Run reloads the feed until the context is cancelled. Reload failures are
// logged and the previous snapshot stays in effect.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Load(); err != nil {
				log.Printf("[stock] reload failed: %v", err)
			}
		}
	}
}

// Lookup returns the unit count for a product name. The match is
// case-insensitive; ok is false when the product is not in the feed.
func (m *Monitor) Lookup(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	m.mu.RLock()
	units, ok := m.units[key]
	m.mu.RUnlock()
	return units, ok
}

func parseFeed(r io.Reader) (map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	units := make(map[string]int)
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse stock feed: %w", err)
		}
		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(record[0], "product_id") {
				continue
			}
		}
		if len(record) < 3 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(record[1]))
		if name == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			continue
		}
		units[name] = n
	}
	return units, nil
}
