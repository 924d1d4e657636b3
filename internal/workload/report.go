package workload

import (
	"time"

	"github.com/rs/zerolog"
)

// WorkerStats counts one worker's operations, indexed by Op.
type WorkerStats struct {
	Attempts  [numOps]int64
	Successes [numOps]int64
}

// Ops returns the number of operations issued.
func (w WorkerStats) Ops() int64 {
	var total int64
	for _, n := range w.Attempts {
		total += n
	}
	return total
}

func (w *WorkerStats) add(other WorkerStats) {
	for i := range w.Attempts {
		w.Attempts[i] += other.Attempts[i]
		w.Successes[i] += other.Successes[i]
	}
}

// Report is the outcome of Run.
type Report struct {
	RunID       string
	Config      Config
	Seed        uint64
	Elapsed     time.Duration
	InitialSize int64
	// FinalSize is -1 when the set cannot report its size.
	FinalSize int64
	Workers   []WorkerStats
	Totals    WorkerStats
}

// ExpectedSize is the key count implied by the initial size and the
// successful updates.
func (r Report) ExpectedSize() int64 {
	return r.InitialSize + r.Totals.Successes[OpInsert] - r.Totals.Successes[OpDelete]
}

// Throughput returns operations per second over the measured run.
func (r Report) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Totals.Ops()) / r.Elapsed.Seconds()
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Str("runID", r.RunID).
		Uint64("seed", r.Seed).
		Int("threads", r.Config.Threads).
		Dur("elapsed", r.Elapsed).
		Int64("ops", r.Totals.Ops()).
		Float64("opsPerSec", r.Throughput()).
		Int64("initialSize", r.InitialSize).
		Int64("finalSize", r.FinalSize).
		Int64("expectedSize", r.ExpectedSize())
	for op := Op(0); op < numOps; op++ {
		e.Int64(op.String()+"Attempts", r.Totals.Attempts[op]).
			Int64(op.String()+"Successes", r.Totals.Successes[op])
	}
}
