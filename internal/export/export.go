// Package export writes JSONL snapshots of breakdown sessions and ships them
// to configured destinations.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// Lister pages through stored breakdown sessions. Satisfied by store.Store
// and by adapters over remote clients.
type Lister interface {
	ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error)
}

// pageSize bounds one store read while paging through sessions.
const pageSize = 200

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version        string    `json:"version"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	BreakdownCount int       `json:"breakdown_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes all breakdown sessions from the lister as JSONL to w,
// sorted by idea ID.
func ExportJSONL(ctx context.Context, s Lister, w io.Writer) error {
	var sessions []*model.BreakdownSession
	for offset := 0; ; offset += pageSize {
		page, total, err := s.ListBreakdowns(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("list breakdowns: %w", err)
		}
		sessions = append(sessions, page...)
		if len(sessions) >= total || len(page) == 0 {
			break
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].IdeaID < sessions[j].IdeaID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:        "1",
		Type:           "header",
		Timestamp:      time.Now().UTC(),
		BreakdownCount: len(sessions),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, b := range sessions {
		if err := enc.Encode(record{Type: "breakdown", Data: b}); err != nil {
			return fmt.Errorf("encode breakdown %s: %w", b.IdeaID, err)
		}
	}
	return nil
}

// Destination is the interface for an export target (S3, a file, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic exports to one or more destinations.
type Scheduler struct {
	store        Lister
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s Lister, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic export. It runs an initial export immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		s.logger.Error("export failed", "error", err)
		return
	}
	for _, d := range s.destinations {
		if err := d.Write(ctx, buf.Bytes()); err != nil {
			s.logger.Error("export write failed", "error", err)
		}
	}
}
