package grid

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/recgrid/internal/viewstore"
)

// ConfigVersion is the stored view configuration format. Stored records with
// a different version are discarded on load.
const ConfigVersion = 1

// DefaultSaveDelay is the debounce applied to configuration writes.
const DefaultSaveDelay = 500 * time.Millisecond

// Timer is a scheduled task that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// PersistOptions configure a Persister.
type PersistOptions struct {
	Delay     time.Duration
	Scheduler Scheduler
	Logger    *slog.Logger
}

// Persister saves and restores the view configuration of one page through a
// key-value store. Saves are debounced; a save scheduled while another is
// pending replaces it.
type Persister struct {
	key    string
	pageID string
	store  viewstore.Store
	delay  time.Duration
	sched  Scheduler
	logger *slog.Logger

	// wmu serializes store writes with Clear so a save that fired before a
	// reset cannot land after it. Taken before mu.
	wmu sync.Mutex

	mu      sync.Mutex
	mounted bool
	timer   Timer
	pending *ViewConfig
	gen     uint64
}

// StoreKey returns the key a page's configuration is stored under.
func StoreKey(pageID string) string {
	return "view/" + pageID
}

// NewPersister builds a persister for pageID.
func NewPersister(pageID string, store viewstore.Store, opts PersistOptions) *Persister {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = realScheduler{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Persister{
		key:    StoreKey(pageID),
		pageID: pageID,
		store:  store,
		delay:  delay,
		sched:  sched,
		logger: logger,
	}
}

// Load reads the stored configuration and merges it with the current
// column defaults. Missing, unreadable and version-mismatched records yield
// false; mismatched and corrupt records are removed.
func (p *Persister) Load(defaults []ColumnSetting) (ViewConfig, bool) {
	data, ok, err := p.store.Get(p.key)
	if err != nil {
		p.logger.Warn("load view config", "key", p.key, "error", err)
		return ViewConfig{}, false
	}
	if !ok {
		return ViewConfig{}, false
	}
	cfg, err := DecodeConfig(data)
	if err != nil {
		p.logger.Warn("discarding unreadable view config", "key", p.key, "error", err)
		p.remove()
		return ViewConfig{}, false
	}
	if cfg.Version != ConfigVersion {
		p.logger.Info("discarding stale view config", "key", p.key, "version", cfg.Version, "want", ConfigVersion)
		p.remove()
		return ViewConfig{}, false
	}
	cfg.PageID = p.pageID
	return MergeConfig(cfg, defaults), true
}

// MarkMounted enables saving. Saves scheduled earlier are dropped.
func (p *Persister) MarkMounted() {
	p.mu.Lock()
	p.mounted = true
	p.mu.Unlock()
}

// Schedule queues cfg for writing after the debounce delay.
func (p *Persister) Schedule(cfg ViewConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.pending = &cfg
	p.gen++
	gen := p.gen
	p.timer = p.sched.AfterFunc(p.delay, func() { p.fire(gen) })
}

func (p *Persister) fire(gen uint64) {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.mu.Lock()
	if gen != p.gen || p.pending == nil {
		p.mu.Unlock()
		return
	}
	cfg := *p.pending
	p.pending = nil
	p.timer = nil
	p.mu.Unlock()

	if err := p.write(cfg); err != nil {
		p.logger.Warn("save view config", "key", p.key, "error", err)
	}
}

// Flush writes a pending configuration immediately.
func (p *Persister) Flush() error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	pending := p.pending
	p.pending = nil
	p.gen++
	p.mu.Unlock()

	if pending == nil {
		return nil
	}
	return p.write(*pending)
}

// Pending reports whether a debounced write is waiting.
func (p *Persister) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Clear cancels any pending write and deletes the stored record.
func (p *Persister) Clear() error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.pending = nil
	p.gen++
	p.mu.Unlock()

	if err := p.store.Delete(p.key); err != nil {
		return fmt.Errorf("delete %s: %w", p.key, err)
	}
	return nil
}

// HasStored reports whether a record exists for this page.
func (p *Persister) HasStored() bool {
	ok, err := p.store.Has(p.key)
	if err != nil {
		p.logger.Warn("check view config", "key", p.key, "error", err)
		return false
	}
	return ok
}

func (p *Persister) write(cfg ViewConfig) error {
	data, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}
	if err := p.store.Set(p.key, data); err != nil {
		return fmt.Errorf("store %s: %w", p.key, err)
	}
	return nil
}

func (p *Persister) remove() {
	if err := p.store.Delete(p.key); err != nil {
		p.logger.Warn("delete view config", "key", p.key, "error", err)
	}
}

// EncodeConfig serializes a view configuration.
func EncodeConfig(cfg ViewConfig) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode view config: %w", err)
	}
	return data, nil
}

// DecodeConfig parses a serialized view configuration.
func DecodeConfig(data []byte) (ViewConfig, error) {
	var cfg ViewConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ViewConfig{}, fmt.Errorf("decode view config: %w", err)
	}
	return cfg, nil
}
