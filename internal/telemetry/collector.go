package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/metailurini/lazyset"
)

const namespace = "lazyset"

// StatsSource is implemented by *lazyset.Set.
type StatsSource interface {
	Stats() lazyset.Stats
}

// SetCollector is a prometheus.Collector over a set's Stats.
type SetCollector struct {
	src StatsSource

	length            *prometheus.Desc
	inserts           *prometheus.Desc
	deletes           *prometheus.Desc
	validationRetries *prometheus.Desc
	epoch             *prometheus.Desc
	retired           *prometheus.Desc
	reclaimed         *prometheus.Desc
	pending           *prometheus.Desc
}

// NewSetCollector returns a collector for src. constLabels are attached to
// every metric, which allows several sets in one registry.
func NewSetCollector(src StatsSource, constLabels prometheus.Labels) *SetCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, constLabels)
	}
	return &SetCollector{
		src:               src,
		length:            desc("length", "Number of keys according to the sharded length counter."),
		inserts:           desc("inserts_total", "Successful inserts."),
		deletes:           desc("deletes_total", "Successful deletes."),
		validationRetries: desc("validation_retries_total", "Operations restarted after failed lock validation."),
		epoch:             desc("epoch", "Current reclamation epoch."),
		retired:           desc("nodes_retired_total", "Nodes unlinked and handed to the reclaimer."),
		reclaimed:         desc("nodes_reclaimed_total", "Nodes returned to the pool after their grace period."),
		pending:           desc("nodes_pending", "Retired nodes waiting for their grace period."),
	}
}

// Describe implements prometheus.Collector.
func (c *SetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.inserts
	ch <- c.deletes
	ch <- c.validationRetries
	ch <- c.epoch
	ch <- c.retired
	ch <- c.reclaimed
	ch <- c.pending
}

// Collect implements prometheus.Collector.
func (c *SetCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(st.Len))
	ch <- prometheus.MustNewConstMetric(c.inserts, prometheus.CounterValue, float64(st.Inserts))
	ch <- prometheus.MustNewConstMetric(c.deletes, prometheus.CounterValue, float64(st.Deletes))
	ch <- prometheus.MustNewConstMetric(c.validationRetries, prometheus.CounterValue, float64(st.ValidationRetries))
	ch <- prometheus.MustNewConstMetric(c.epoch, prometheus.GaugeValue, float64(st.Epoch))
	ch <- prometheus.MustNewConstMetric(c.retired, prometheus.CounterValue, float64(st.RetiredNodes))
	ch <- prometheus.MustNewConstMetric(c.reclaimed, prometheus.CounterValue, float64(st.ReclaimedNodes))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(st.PendingNodes))
}
