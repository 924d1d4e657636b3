package workload

import (
	"context"
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/metailurini/lazyset"
)

// ErrVerification is returned by Run when the set fails its post-run checks.
var ErrVerification = errors.New("workload verification failed")

// Op is a set operation issued by a worker.
type Op int

const (
	OpInsert Op = iota
	OpDelete
	OpContains
	numOps
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpContains:
		return "contains"
	default:
		return "unknown"
	}
}

// Recorder observes every operation. It is called from all workers
// concurrently. ok is the operation's boolean outcome: inserted, removed or
// found.
type Recorder interface {
	Record(op Op, ok bool)
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	recorder Recorder
}

// WithRecorder reports every operation to r.
func WithRecorder(r Recorder) Option {
	return func(o *runOptions) { o.recorder = r }
}

// The following are optional capabilities used for prefill and verification.
type (
	sizer interface{ Len() int64 }
	counter interface{ Count() int }
	checker interface{ CheckInvariants() error }
	filler  interface {
		Fill(keyRange int64, size int) int
	}
)

// Run prefills set, drives it with cfg.Threads workers until cfg.Duration
// elapses or ctx is done, and returns the aggregated report. When cfg.Verify
// is set, the final key count must equal the initial count plus successful
// inserts minus successful deletes, and the set's own invariant check must
// pass; otherwise the report is returned with an error wrapping ErrVerification.
func Run(ctx context.Context, set lazyset.IntSet, cfg Config, opts ...Option) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randv2.Uint64()
	}

	report := Report{
		RunID:   uuid.NewString(),
		Config:  cfg,
		Seed:    seed,
		Workers: make([]WorkerStats, cfg.Threads),
	}
	logger := log.With().Str("run", report.RunID).Logger()

	report.InitialSize = prefill(set, cfg, seed)
	logger.Info().
		Int("threads", cfg.Threads).
		Int64("initialSize", report.InitialSize).
		Int64("keyRange", cfg.KeyRange).
		Int("insertPercent", cfg.InsertPercent).
		Int("deletePercent", cfg.DeletePercent).
		Stringer("duration", cfg.Duration).
		Uint64("seed", seed).
		Msg("workload started")

	runCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var stop atomic.Bool
	go func() {
		<-runCtx.Done()
		stop.Store(true)
	}()

	start := time.Now()
	g, _ := errgroup.WithContext(runCtx)
	for id := range cfg.Threads {
		g.Go(func() error {
			set.InitParticipation(id)
			defer set.EndParticipation(id)

			r := randv2.New(randv2.NewPCG(seed, uint64(id)))
			stats := &report.Workers[id]
			for !stop.Load() {
				op, key := nextOp(r, cfg)
				ok := apply(set, op, key)
				stats.Attempts[op]++
				if ok {
					stats.Successes[op]++
				}
				if o.recorder != nil {
					o.recorder.Record(op, ok)
				}
			}
			logger.Debug().
				Int("worker", id).
				Int64("ops", stats.Ops()).
				Msg("worker finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Elapsed = time.Since(start)

	for _, w := range report.Workers {
		report.Totals.add(w)
	}
	report.FinalSize = finalSize(set)

	logger.Info().
		Int64("ops", report.Totals.Ops()).
		Float64("opsPerSec", report.Throughput()).
		Int64("inserted", report.Totals.Successes[OpInsert]).
		Int64("deleted", report.Totals.Successes[OpDelete]).
		Int64("finalSize", report.FinalSize).
		Msg("workload finished")

	if cfg.Verify {
		if err := verify(set, report); err != nil {
			logger.Error().Err(err).Msg("verification failed")
			return report, err
		}
		logger.Info().Msg("verification passed")
	}
	return report, nil
}

func nextOp(r *randv2.Rand, cfg Config) (Op, int64) {
	key := 1 + r.Int64N(cfg.KeyRange)
	switch p := r.IntN(100); {
	case p < cfg.InsertPercent:
		return OpInsert, key
	case p < cfg.InsertPercent+cfg.DeletePercent:
		return OpDelete, key
	default:
		return OpContains, key
	}
}

func apply(set lazyset.IntSet, op Op, key int64) bool {
	switch op {
	case OpInsert:
		return !set.InsertIfAbsent(key)
	case OpDelete:
		return set.Remove(key)
	default:
		return set.Contains(key)
	}
}

// prefill loads the initial keys and returns the resulting key count.
func prefill(set lazyset.IntSet, cfg Config, seed uint64) int64 {
	before := finalSize(set)
	if before < 0 {
		before = 0
	}

	var added int64
	switch f, ok := set.(filler); {
	case cfg.RandomFill && ok:
		added = int64(f.Fill(cfg.KeyRange, int(cfg.InitialSize)))
	case cfg.RandomFill:
		r := randv2.New(randv2.NewPCG(seed, ^uint64(0)))
		for attempts := int64(0); added < cfg.InitialSize && attempts < 64*cfg.KeyRange; attempts++ {
			if !set.InsertIfAbsent(1 + r.Int64N(cfg.KeyRange)) {
				added++
			}
		}
	default:
		for k := int64(1); k <= cfg.InitialSize; k++ {
			if !set.InsertIfAbsent(k) {
				added++
			}
		}
	}
	return before + added
}

// finalSize reports the number of keys, or -1 if the set cannot tell.
func finalSize(set lazyset.IntSet) int64 {
	if c, ok := set.(counter); ok {
		return int64(c.Count())
	}
	if s, ok := set.(sizer); ok {
		return s.Len()
	}
	return -1
}

func verify(set lazyset.IntSet, report Report) error {
	if c, ok := set.(checker); ok {
		if err := c.CheckInvariants(); err != nil {
			return fmt.Errorf("%w: %w", ErrVerification, err)
		}
	}
	if report.FinalSize < 0 {
		return nil
	}
	if want := report.ExpectedSize(); report.FinalSize != want {
		return fmt.Errorf("%w: expected %d keys (initial %d + %d inserted - %d deleted), found %d",
			ErrVerification, want, report.InitialSize,
			report.Totals.Successes[OpInsert], report.Totals.Successes[OpDelete], report.FinalSize)
	}
	return nil
}
