package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_catalog_loads_total",
			Help: "Total number of catalog load attempts",
		},
		[]string{"result"},
	)

	catalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Number of products in the current catalog snapshot",
	})

	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_scans_total",
			Help: "Total number of finished scan sessions by outcome",
		},
		[]string{"outcome"},
	)

	decodeFaultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_decode_faults_total",
		Help: "Total number of unexpected barcode decoder failures",
	})

	activeScans = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_scans",
		Help: "Number of scan sessions currently holding a camera",
	})
)

// CatalogLoaded records a catalog load attempt. products is the size of the
// catalog in effect afterwards, which a failed reload leaves unchanged.
func CatalogLoaded(products int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	catalogLoadsTotal.WithLabelValues(result).Inc()
	catalogProducts.Set(float64(products))
}

// Scans reports scan session outcomes. It satisfies scanner.Observer.
type Scans struct{}

func (Scans) ScanStarted() { activeScans.Inc() }

func (Scans) ScanFinished(outcome string) {
	// Camera errors happen before a session starts.
	if outcome != "camera-error" {
		activeScans.Dec()
	}
	scansTotal.WithLabelValues(outcome).Inc()
}

func (Scans) DecodeFault() { decodeFaultsTotal.Inc() }

// RegisterSessionGauge exposes the number of live browser sessions.
func RegisterSessionGauge(reg prometheus.Registerer, count func() int) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "storefront_sessions",
			Help: "Number of live browser sessions",
		}, func() float64 {
			return float64(count())
		}),
	)
}
