package status

import (
	"log/slog"
	"maps"
	"slices"
	"time"
)

// DefaultPollInterval bounds how often the interface table queries the system.
const DefaultPollInterval = time.Second

// ChangeFunc is called when a refresh observes a different status for an interface.
type ChangeFunc func(name string, previous, current InterfaceStatus)

// Table holds the last observed status of every interface referenced by any
// network indicator. Names are tracked up front or on first reference and the whole set is
// refreshed in one query at most once per interval, so the cost of a refresh
// does not grow with the number of indicators sharing an interface.
//
// A Table is owned by the scheduler goroutine and is not safe for concurrent use.
type Table struct {
	source      InterfaceSource
	interval    time.Duration
	entries     map[string]InterfaceStatus
	names       []string
	lastRefresh time.Duration
	refreshed   bool
	failing     bool
	onChange    ChangeFunc
	logger      *slog.Logger
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithChangeFunc registers a callback for status transitions.
func WithChangeFunc(fn ChangeFunc) TableOption {
	return func(t *Table) {
		t.onChange = fn
	}
}

// WithTableLogger sets the logger used for query failures.
func WithTableLogger(logger *slog.Logger) TableOption {
	return func(t *Table) {
		t.logger = logger
	}
}

// NewTable creates an empty table backed by source.
func NewTable(source InterfaceSource, interval time.Duration, opts ...TableOption) *Table {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := &Table{
		source:   source,
		interval: interval,
		entries:  make(map[string]InterfaceStatus),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the minimum time between two bulk refreshes.
func (t *Table) Interval() time.Duration {
	return t.interval
}

// Track registers names ahead of the first Refresh so it covers them in one
// bulk query. Names already tracked are ignored.
func (t *Table) Track(names ...string) {
	for _, name := range names {
		if _, ok := t.entries[name]; ok {
			continue
		}
		t.names = append(t.names, name)
		t.entries[name] = 0
	}
}

// Lookup returns the last known status of name. Looking up a name that was
// never tracked starts tracking it and queries it immediately.
func (t *Table) Lookup(name string) InterfaceStatus {
	if st, ok := t.entries[name]; ok {
		return st
	}

	t.names = append(t.names, name)
	t.entries[name] = 0

	statuses, err := t.source.InterfaceStatus([]string{name})
	if err != nil {
		t.logger.Debug("Interface query failed, assuming down", "interface", name, "error", err)
		return 0
	}
	t.update(name, statuses[name])
	return t.entries[name]
}

// Refresh re-queries every tracked interface if at least one interval has
// passed since the previous refresh. It reports whether a query was made.
// A failed query marks every interface as down.
func (t *Table) Refresh(now time.Duration) bool {
	if t.refreshed && now-t.lastRefresh < t.interval {
		return false
	}
	t.refreshed = true
	t.lastRefresh = now

	if len(t.names) == 0 {
		return true
	}

	statuses, err := t.source.InterfaceStatus(t.names)
	if err != nil {
		if !t.failing {
			t.logger.Warn("Interface query failed, treating interfaces as down", "error", err)
		}
		t.failing = true
		statuses = nil
	} else if t.failing {
		t.logger.Info("Interface query recovered")
		t.failing = false
	}

	for _, name := range t.names {
		t.update(name, statuses[name])
	}
	return true
}

// Names returns the tracked interface names in first-reference order.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// Snapshot returns a copy of the current statuses.
func (t *Table) Snapshot() map[string]InterfaceStatus {
	return maps.Clone(t.entries)
}

func (t *Table) update(name string, current InterfaceStatus) {
	previous := t.entries[name]
	t.entries[name] = current
	if previous != current && t.onChange != nil {
		t.onChange(name, previous, current)
	}
}
