package restapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ARM calls. Register it once and share it between clients.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "armclient",
			Name:      "requests_total",
			Help:      "HTTP requests sent to Azure Resource Manager, by method and status code",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "armclient",
			Name:      "request_duration_seconds",
			Help:      "Latency of single HTTP attempts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "armclient",
			Name:      "retries_total",
			Help:      "Attempts re-sent after a transport failure",
		}),
	}

	for _, collector := range []prometheus.Collector{metrics.requests, metrics.duration, metrics.retries} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return metrics, nil
}

func (m *Metrics) observeRetry() {
	if m != nil {
		m.retries.Inc()
	}
}

type metricsPolicy struct {
	metrics *Metrics
}

func (p *metricsPolicy) Do(req *policy.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := req.Next()

	method := req.Raw().Method
	p.metrics.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	p.metrics.requests.WithLabelValues(method, code).Inc()
	return resp, err
}
