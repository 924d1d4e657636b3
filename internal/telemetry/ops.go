package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/metailurini/lazyset/internal/workload"
)

// Ops counts workload operations as lazyset_ops_total{op,result}.
// It implements workload.Recorder.
type Ops struct {
	vec *prometheus.CounterVec
	// Children resolved up front; Record runs on every operation.
	counters [3][2]prometheus.Counter
}

var _ workload.Recorder = (*Ops)(nil)

// NewOps creates the counter vector. Register it with Collector.
func NewOps() *Ops {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ops_total",
		Help:      "Workload operations by kind and outcome.",
	}, []string{"op", "result"})

	o := &Ops{vec: vec}
	for op := range o.counters {
		name := workload.Op(op).String()
		o.counters[op][0] = vec.WithLabelValues(name, "miss")
		o.counters[op][1] = vec.WithLabelValues(name, "hit")
	}
	return o
}

// Collector returns the underlying collector for registration.
func (o *Ops) Collector() prometheus.Collector {
	return o.vec
}

// Record implements workload.Recorder.
func (o *Ops) Record(op workload.Op, ok bool) {
	if int(op) >= len(o.counters) {
		return
	}
	i := 0
	if ok {
		i = 1
	}
	o.counters[op][i].Inc()
}
