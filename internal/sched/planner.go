// Package sched partitions large table workloads into chunks and picks
// sequential or parallel execution from available memory, so
// multi-million-row inputs degrade to slower plans instead of dying.
package sched

import (
	"runtime"

	"go.uber.org/zap"
)

// Band is the memory regime the planner has placed the host in.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

// String returns the log label for a band.
func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	}
	return "high"
}

// Default watermarks between memory bands.
const (
	DefaultLowWaterBytes  = 1 << 30 // below 1 GiB: sequential
	DefaultHighWaterBytes = 4 << 30 // above 4 GiB: full parallelism
)

// Chunk sizes per band. Smaller chunks bound the peak number of rows
// held in flight when memory is tight.
const (
	smallChunkRows = 8_192
	largeChunkRows = 65_536
)

// Plan is a concrete execution choice for one workload.
type Plan struct {
	Band      Band
	Workers   int
	ChunkRows int
}

// Planner selects execution plans from probed memory availability.
type Planner struct {
	lowWater  uint64
	highWater uint64
	probe     ProbeFunc
	logger    *zap.Logger
}

// NewPlanner creates a planner with default watermarks, probing
// /proc/meminfo.
func NewPlanner() *Planner {
	return &Planner{
		lowWater:  DefaultLowWaterBytes,
		highWater: DefaultHighWaterBytes,
		probe:     ReadMemoryStats,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for plan decisions.
func (p *Planner) SetLogger(l *zap.Logger) {
	p.logger = l
}

// SetProbe replaces the memory probe.
func (p *Planner) SetProbe(probe ProbeFunc) {
	p.probe = probe
}

// SetWatermarks overrides the band boundaries.
func (p *Planner) SetWatermarks(low, high uint64) {
	p.lowWater = low
	p.highWater = high
}

// Plan picks a band for a workload of the given row count. An
// unreadable probe lands in the medium band rather than assuming the
// host has memory to burn.
func (p *Planner) Plan(rows int) Plan {
	band := BandMedium
	stats, err := p.probe()
	if err != nil {
		p.logger.Warn("memory probe failed, assuming medium band", zap.Error(err))
	} else {
		switch {
		case stats.AvailableBytes < p.lowWater:
			band = BandLow
		case stats.AvailableBytes >= p.highWater:
			band = BandHigh
		}
	}

	plan := p.planForBand(band, rows)
	p.logger.Debug("execution plan",
		zap.String("band", plan.Band.String()),
		zap.Int("rows", rows),
		zap.Int("workers", plan.Workers),
		zap.Int("chunk_rows", plan.ChunkRows),
		zap.Uint64("available_bytes", stats.AvailableBytes))
	return plan
}

func (p *Planner) planForBand(band Band, rows int) Plan {
	plan := Plan{Band: band}
	switch band {
	case BandLow:
		plan.Workers = 1
		plan.ChunkRows = smallChunkRows
	case BandMedium:
		plan.Workers = min(4, runtime.NumCPU())
		plan.ChunkRows = smallChunkRows
	default:
		plan.Workers = runtime.NumCPU()
		plan.ChunkRows = largeChunkRows
	}

	if rows > 0 && plan.ChunkRows > rows {
		plan.ChunkRows = rows
	}
	if plan.ChunkRows < 1 {
		plan.ChunkRows = 1
	}
	return plan
}

// Sequential is the fallback plan when a parallel pass hits memory
// pressure.
func Sequential(rows int) Plan {
	p := Plan{Band: BandLow, Workers: 1, ChunkRows: smallChunkRows}
	if rows > 0 && p.ChunkRows > rows {
		p.ChunkRows = rows
	}
	if p.ChunkRows < 1 {
		p.ChunkRows = 1
	}
	return p
}
