package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ReceiptsCreatedTotal counts persisted receipts.
	ReceiptsCreatedTotal prometheus.Counter
	// ReceiptsDeletedTotal counts deleted receipts.
	ReceiptsDeletedTotal prometheus.Counter
	// ReceiptItemsTotal counts line items written across all receipts.
	ReceiptItemsTotal prometheus.Counter
	// ReportBuildsTotal counts daily report builds by source (db or cache).
	ReportBuildsTotal *prometheus.CounterVec
	// CoefficientUpdatesTotal counts base coefficient updates.
	CoefficientUpdatesTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers intake-domain Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ReceiptsCreatedTotal = register[prometheus.Counter](reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_created_total",
			Help:      "Count of receipts persisted.",
		}))
		ReceiptsDeletedTotal = register[prometheus.Counter](reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_deleted_total",
			Help:      "Count of receipts deleted.",
		}))
		ReceiptItemsTotal = register[prometheus.Counter](reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_items_total",
			Help:      "Count of receipt line items written.",
		}))
		ReportBuildsTotal = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_builds_total",
			Help:      "Count of daily report builds by source.",
		}, []string{"source"}))
		CoefficientUpdatesTotal = register[prometheus.Counter](reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coefficient_updates_total",
			Help:      "Count of base coefficient updates.",
		}))
	})
}
