// Package metrics exports intern table statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xgzlucario/atom"
)

var _ prometheus.Collector = (*Collector)(nil)

// Collector reads atom.GetStats on every scrape.
type Collector struct {
	atoms     *prometheus.Desc
	bytes     *prometheus.Desc
	pages     *prometheus.Desc
	pageBytes *prometheus.Desc
	large     *prometheus.Desc
	lookups   *prometheus.Desc
	groups    *prometheus.Desc

	stats func() atom.Stats
}

// NewCollector returns a collector for the process-wide table.
// Metric names are prefixed with namespace when it is not empty.
func NewCollector(namespace string) *Collector {
	return newCollector(namespace, atom.GetStats)
}

func newCollector(namespace string, stats func() atom.Stats) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "atom", n)
	}
	return &Collector{
		atoms:     prometheus.NewDesc(name("atoms"), "Number of distinct interned texts.", nil, nil),
		bytes:     prometheus.NewDesc(name("text_bytes"), "Bytes of interned text.", nil, nil),
		pages:     prometheus.NewDesc(name("pages"), "Number of text pages allocated.", nil, nil),
		pageBytes: prometheus.NewDesc(name("page_bytes"), "Bytes held by text pages.", nil, nil),
		large:     prometheus.NewDesc(name("large_texts"), "Texts stored outside pages.", nil, nil),
		lookups:   prometheus.NewDesc(name("interns_total"), "Interning calls by result.", []string{"result"}, nil),
		groups:    prometheus.NewDesc(name("index_groups_total"), "Index group arrays by source.", []string{"source"}, nil),
		stats:     stats,
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.atoms
	ch <- c.bytes
	ch <- c.pages
	ch <- c.pageBytes
	ch <- c.large
	ch <- c.lookups
	ch <- c.groups
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.atoms, prometheus.GaugeValue, float64(s.Atoms))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(s.Bytes))
	ch <- prometheus.MustNewConstMetric(c.pages, prometheus.GaugeValue, float64(s.Pages))
	ch <- prometheus.MustNewConstMetric(c.pageBytes, prometheus.GaugeValue, float64(s.PageBytes))
	ch <- prometheus.MustNewConstMetric(c.large, prometheus.GaugeValue, float64(s.Large))
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(c.groups, prometheus.CounterValue, float64(s.GroupAllocs), "alloc")
	ch <- prometheus.MustNewConstMetric(c.groups, prometheus.CounterValue, float64(s.GroupReuses), "reuse")
}
