package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution and geocoding Prometheus metrics.
var (
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosnap",
			Name:      "resolutions_total",
			Help:      "Total coordinate resolutions by winning source",
		},
		[]string{"source"}, // exif / vision_text / deterministic_hash
	)

	GeocodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosnap",
			Name:      "geocode_requests_total",
			Help:      "Total geocoding provider requests",
		},
		[]string{"direction", "status"}, // forward/reverse, ok/error/not_found
	)

	GeocodeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosnap",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache hits and misses",
		},
		[]string{"direction", "result"}, // hit / miss
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geosnap",
			Name:      "searches_total",
			Help:      "Total search invocations by policy",
		},
		[]string{"policy"},
	)
)

var resolverMetricsRegistered bool

// RegisterResolverMetrics registers resolution metrics. Must be called once from main.
func RegisterResolverMetrics() {
	if resolverMetricsRegistered {
		return
	}
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeCacheTotal)
	prometheus.MustRegister(SearchesTotal)
	resolverMetricsRegistered = true
}
