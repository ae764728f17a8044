package core

import (
	"encoding/json"
	"fmt"
)

// PoolStats represents statistics for the engine's memory pools
type PoolStats struct {
	RequestState RequestStatePoolStats `json:"request_state"`
	Context      SmartPoolStats        `json:"context"`
}

// RequestStatePoolStats mirrors pools.PoolStats for the lock-free
// RequestState pool.
type RequestStatePoolStats struct {
	Capacity       int64 `json:"capacity"`
	Available      int64 `json:"available"`
	OverflowAllocs int64 `json:"overflow_allocs"`
	OverflowFrees  int64 `json:"overflow_frees"`
}

type SmartPoolStats struct {
	Gets    uint64  `json:"gets"`
	Puts    uint64  `json:"puts"`
	HitRate float64 `json:"hit_rate"`
}

// GetPoolStats returns statistics for the engine's memory pools.
func (e *Engine) GetPoolStats() PoolStats {
	stateStats := e.statePool.Stats()
	ctxStats := e.contextPool.Stats()

	return PoolStats{
		RequestState: RequestStatePoolStats{
			Capacity:       stateStats.Capacity,
			Available:      stateStats.Available,
			OverflowAllocs: stateStats.OverflowAllocs,
			OverflowFrees:  stateStats.OverflowFrees,
		},
		Context: SmartPoolStats{
			Gets:    ctxStats.Gets,
			Puts:    ctxStats.Puts,
			HitRate: ctxStats.HitRate,
		},
	}
}

// GetPoolStatsJSON returns pool statistics as JSON string
func (e *Engine) GetPoolStatsJSON() string {
	stats := e.GetPoolStats()
	data, _ := json.MarshalIndent(stats, "", "  ")
	return string(data)
}

// GetPoolStatsText returns pool statistics as human-readable text
func (e *Engine) GetPoolStatsText() string {
	stats := e.GetPoolStats()
	return fmt.Sprintf(`Memory Pool Statistics
======================

Request State Pool (lock-free):
  Capacity:        %d
  Available:       %d
  Overflow allocs: %d
  Overflow frees:  %d

Context Pool:
  Gets:     %d
  Puts:     %d
  Hit Rate: %.2f%%

Target: Hit Rate > 95%% for optimal performance
`,
		stats.RequestState.Capacity, stats.RequestState.Available,
		stats.RequestState.OverflowAllocs, stats.RequestState.OverflowFrees,
		stats.Context.Gets, stats.Context.Puts, stats.Context.HitRate*100,
	)
}
