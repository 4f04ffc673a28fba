package ivcore

import (
	"sync/atomic"
	"time"
)

// Stats holds the counters the core maintains for observability. All
// fields are updated with atomic operations so a caller may read a
// consistent GetStats() snapshot from a monitoring goroutine while the
// core itself runs single-threaded on its own goroutine — lock-free to
// match the core's own single-writer, copy-on-read access pattern.
type Stats struct {
	TighteningsFromExplicitBasis   int64
	TighteningsFromConstraintMatrix int64
	TighteningsFromRows            int64

	Splits int64
	Pops   int64

	CurrentDecisionLevel int64
	MaxDecisionLevel     int64

	ContextPushes int64
	ContextPops   int64

	totalDecisionCoreTime int64 // nanoseconds
	pushPopCount          int64
	pushPopTime           int64 // nanoseconds
}

// NewStats creates a zeroed Stats block.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) recordTightening(source tighteningSource) {
	if s == nil {
		return
	}
	switch source {
	case sourceExplicitBasis:
		atomic.AddInt64(&s.TighteningsFromExplicitBasis, 1)
	case sourceConstraintMatrix:
		atomic.AddInt64(&s.TighteningsFromConstraintMatrix, 1)
	case sourceRow:
		atomic.AddInt64(&s.TighteningsFromRows, 1)
	}
}

func (s *Stats) recordSplit(level int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.Splits, 1)
	atomic.StoreInt64(&s.CurrentDecisionLevel, level)
	for {
		max := atomic.LoadInt64(&s.MaxDecisionLevel)
		if level <= max || atomic.CompareAndSwapInt64(&s.MaxDecisionLevel, max, level) {
			break
		}
	}
}

func (s *Stats) recordPop(level int64) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.Pops, 1)
	atomic.StoreInt64(&s.CurrentDecisionLevel, level)
}

func (s *Stats) recordContextPush() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.ContextPushes, 1)
}

func (s *Stats) recordContextPop() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.ContextPops, 1)
}

func (s *Stats) recordPushPopDuration(d time.Duration) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.pushPopCount, 1)
	atomic.AddInt64(&s.pushPopTime, int64(d))
}

func (s *Stats) recordDecisionCoreDuration(d time.Duration) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.totalDecisionCoreTime, int64(d))
}

// GetStats returns a point-in-time copy of every counter.
func (s *Stats) GetStats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		TighteningsFromExplicitBasis:    atomic.LoadInt64(&s.TighteningsFromExplicitBasis),
		TighteningsFromConstraintMatrix: atomic.LoadInt64(&s.TighteningsFromConstraintMatrix),
		TighteningsFromRows:             atomic.LoadInt64(&s.TighteningsFromRows),
		Splits:                          atomic.LoadInt64(&s.Splits),
		Pops:                            atomic.LoadInt64(&s.Pops),
		CurrentDecisionLevel:            atomic.LoadInt64(&s.CurrentDecisionLevel),
		MaxDecisionLevel:                atomic.LoadInt64(&s.MaxDecisionLevel),
		ContextPushes:                   atomic.LoadInt64(&s.ContextPushes),
		ContextPops:                     atomic.LoadInt64(&s.ContextPops),
		totalDecisionCoreTime:           atomic.LoadInt64(&s.totalDecisionCoreTime),
		pushPopCount:                    atomic.LoadInt64(&s.pushPopCount),
		pushPopTime:                     atomic.LoadInt64(&s.pushPopTime),
	}
}

// TotalDecisionCoreTime returns cumulative time spent inside the
// decision core.
func (s Stats) TotalDecisionCoreTime() time.Duration {
	return time.Duration(s.totalDecisionCoreTime)
}

// AveragePushPopTime returns the mean duration of a context push/pop
// pair, or 0 if none were recorded.
func (s Stats) AveragePushPopTime() time.Duration {
	if s.pushPopCount == 0 {
		return 0
	}
	return time.Duration(s.pushPopTime / s.pushPopCount)
}

type tighteningSource int

const (
	sourceConstraintMatrix tighteningSource = iota
	sourceExplicitBasis
	sourceRow
)
