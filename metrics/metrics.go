// Package metrics, çalıştırılan ifadelerin süre ve hata sayılarını Prometheus'a aktarır.
//
//	collector := metrics.NewCollector("")
//	prometheus.MustRegister(collector)
//	db, _ := sqlchain.Connect("mysql", dsn, sqlchain.WithObserver(collector))
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Statement etiket değerleri.
const (
	StatementSelect = "select"
	StatementInsert = "insert"
	StatementUpdate = "update"
	StatementDelete = "delete"
	StatementOther  = "other"
)

// Collector, sqlchain.Logger imzasını taşıyan bir prometheus.Collector'dır.
type Collector struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector, namespace altında sqlchain_query_duration_seconds ve
// sqlchain_query_errors_total metriklerini üreten bir Collector döndürür.
func NewCollector(namespace string) *Collector {
	return &Collector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sqlchain_query_duration_seconds",
			Help:      "Duration of executed SQL statements.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"statement"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sqlchain_query_errors_total",
			Help:      "The total number of failed SQL statements.",
		}, []string{"statement"}),
	}
}

// Log, ifadenin süresini kaydeder ve hata varsa sayacı artırır.
func (c *Collector) Log(query string, _ []any, duration time.Duration, err error) {
	stmt := Statement(query)
	c.duration.WithLabelValues(stmt).Observe(duration.Seconds())
	if err != nil {
		c.errors.WithLabelValues(stmt).Inc()
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.duration.Describe(ch)
	c.errors.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.duration.Collect(ch)
	c.errors.Collect(ch)
}

// Statement, ifadenin ilk anahtar kelimesinden etiket değerini çıkarır.
// "WITH ... SELECT" ve "SELECT COUNT(*) FROM (...)" select sayılır.
func Statement(query string) string {
	fields := strings.Fields(strings.TrimLeft(query, "( \t\n"))
	if len(fields) == 0 {
		return StatementOther
	}

	switch strings.ToLower(fields[0]) {
	case "select", "with":
		return StatementSelect
	case "insert", "replace":
		return StatementInsert
	case "update":
		return StatementUpdate
	case "delete":
		return StatementDelete
	default:
		return StatementOther
	}
}
