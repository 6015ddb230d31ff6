package health

import (
	"context"
	"sort"
	"time"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// Status is the health payload.
type Status struct {
	OK     bool              `json:"ok"`
	Store  string            `json:"store,omitempty"`
	Index  string            `json:"index,omitempty"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	store  string
	index  string
	checks map[string]Check
}

// NewService constructs a health service for the given report sink kinds.
func NewService(storeProvider, index string) *Service {
	return &Service{store: storeProvider, index: index, checks: map[string]Check{}}
}

// AddCheck registers a dependency probe under name.
func (s *Service) AddCheck(name string, fn Check) {
	if fn == nil {
		return
	}
	s.checks[name] = fn
}

// Status runs every probe. A failing probe marks the service unhealthy.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true, Store: s.store, Index: s.index}
	if len(s.checks) == 0 {
		return out
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out.Checks = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](checkCtx)
		cancel()
		if err != nil {
			out.OK = false
			out.Checks[name] = "down"
			continue
		}
		out.Checks[name] = "ok"
	}
	return out
}
