package service

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/failrelay/internal/activitylog/domain"
	"github.com/smallbiznis/failrelay/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Capacity bounds the number of retained entries; appending beyond it
// evicts the oldest entry.
const Capacity = 50

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	mu      sync.Mutex
	entries []domain.Entry
	genID   *snowflake.Node
	log     *zap.Logger
	metrics *telemetry.Metrics
}

func New(p Params) domain.Recorder {
	return &Service{
		entries: make([]domain.Entry, 0, Capacity),
		genID:   p.GenID,
		log:     p.Log.Named("activitylog"),
		metrics: p.Metrics,
	}
}

func (s *Service) Append(severity, message string) {
	entry := domain.Entry{
		ID:        s.genID.Generate(),
		Timestamp: time.Now().UTC(),
		Severity:  severity,
		Message:   message,
	}

	s.mu.Lock()
	if len(s.entries) == Capacity {
		copy(s.entries, s.entries[1:])
		s.entries[Capacity-1] = entry
	} else {
		s.entries = append(s.entries, entry)
	}
	depth := len(s.entries)
	s.mu.Unlock()

	s.metrics.SetActivityLogDepth(depth)
}

func (s *Service) Recent(n int) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]domain.Entry, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

func (s *Service) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Service) Last() (domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return domain.Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}
