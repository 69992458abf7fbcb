package costcontrol

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	clientTTL       = 24 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// Tracker accumulates per-client API spend in memory.
type Tracker struct {
	config  CostControlConfig
	clients map[string]*ClientSpend
	mu      sync.RWMutex

	// Stored as cost * 1e9 (nano-dollars) to use atomic int64 ops
	globalCostNano int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTracker creates a new cost tracker. Starts a background cleanup goroutine.
func NewTracker(cfg CostControlConfig) *Tracker {
	t := &Tracker{
		config:  cfg,
		clients: make(map[string]*ClientSpend),
		stop:    make(chan struct{}),
	}
	go t.cleanup()
	return t
}

// Enabled reports whether usage is being recorded.
func (t *Tracker) Enabled() bool { return t.config.Enabled }

// GetGlobalCost returns total accumulated cost across all clients.
func (t *Tracker) GetGlobalCost() float64 {
	return float64(atomic.LoadInt64(&t.globalCostNano)) / 1e9
}

// RecordUsage prices a completion and attributes it to clientID.
func (t *Tracker) RecordUsage(clientID, model string, inputTokens, outputTokens int) float64 {
	if !t.config.Enabled {
		return 0
	}
	cost := CalculateCost(inputTokens, outputTokens, GetModelPricing(model, t.config.Pricing))

	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.getOrCreateLocked(clientID)
	c.Cost += cost
	c.RequestCount++
	c.InputTokens += inputTokens
	c.OutputTokens += outputTokens
	c.LastUpdated = time.Now()
	if model != "" {
		c.Model = model
	}

	atomic.AddInt64(&t.globalCostNano, int64(cost*1e9))
	return cost
}

// GetClientCost returns accumulated cost for a client.
func (t *Tracker) GetClientCost(clientID string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if c, ok := t.clients[clientID]; ok {
		return c.Cost
	}
	return 0
}

// AllClients returns a snapshot of all clients, highest spend first.
func (t *Tracker) AllClients() []ClientSpendSnapshot {
	t.mu.RLock()
	snapshots := make([]ClientSpendSnapshot, 0, len(t.clients))
	for _, c := range t.clients {
		snapshots = append(snapshots, ClientSpendSnapshot{
			ClientID:     c.ClientID,
			Cost:         c.Cost,
			RequestCount: c.RequestCount,
			InputTokens:  c.InputTokens,
			OutputTokens: c.OutputTokens,
			Model:        c.Model,
			LastUpdated:  c.LastUpdated,
		})
	}
	t.mu.RUnlock()

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Cost > snapshots[j].Cost })
	return snapshots
}

// Close stops the cleanup goroutine.
func (t *Tracker) Close() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Tracker) getOrCreateLocked(clientID string) *ClientSpend {
	if c, ok := t.clients[clientID]; ok {
		return c
	}
	now := time.Now()
	c := &ClientSpend{
		ClientID:    clientID,
		CreatedAt:   now,
		LastUpdated: now,
	}
	t.clients[clientID] = c
	return c
}

func (t *Tracker) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.evictStale(time.Now())
		}
	}
}

func (t *Tracker) evictStale(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, c := range t.clients {
		if now.Sub(c.LastUpdated) > clientTTL {
			atomic.AddInt64(&t.globalCostNano, -int64(c.Cost*1e9))
			delete(t.clients, id)
		}
	}
}
