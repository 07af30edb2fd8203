package metrics

import "github.com/prometheus/client_golang/prometheus"

// StreamStats reports the live stream hub counters
type StreamStats func() (streams int, dropped uint64)

// RegisterStreamMetrics exposes the hub counters, read at scrape time
func RegisterStreamMetrics(reg prometheus.Registerer, stats StreamStats) error {
	streams := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      MetricNameSSEStreams,
		Help:      HelpTextSSEStreams,
	}, func() float64 {
		n, _ := stats()
		return float64(n)
	})
	dropped := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      MetricNameSSEDropped,
		Help:      HelpTextSSEDropped,
	}, func() float64 {
		_, d := stats()
		return float64(d)
	})

	for _, c := range []prometheus.Collector{streams, dropped} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
