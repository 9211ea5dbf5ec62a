package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency           = metric.NewHistogram("1m1s")
	AdvertisementsPerSecond   = metric.NewCounter("10s1s")
	LinkObservationsPerSecond = metric.NewCounter("10s1s")
	RouteChangesPerSecond     = metric.NewCounter("10s1s")
	EvictionsPerSecond        = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("weft:Advertisements/s", AdvertisementsPerSecond)
	expvar.Publish("weft:LinkObservations/s", LinkObservationsPerSecond)
	expvar.Publish("weft:RouteChanges/s", RouteChangesPerSecond)
	expvar.Publish("weft:Evictions/s", EvictionsPerSecond)
	expvar.Publish("weft:DispatchLatency (µs)", DispatchLatency)
}
