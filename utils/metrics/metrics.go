package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LiquidationMetrics tracks the liquidation engine's outcomes.
type LiquidationMetrics struct {
	Attempts      prometheus.Counter
	Successes     prometheus.Counter
	Aborts        *prometheus.CounterVec
	ProfitTotal   prometheus.Counter
	LoanVolume    prometheus.Counter
	ExecutionTime prometheus.Histogram
}

// NewLiquidationMetrics registers liquidation metrics on reg under the
// given namespace.
func NewLiquidationMetrics(reg prometheus.Registerer, namespace string) *LiquidationMetrics {
	factory := promauto.With(reg)
	return &LiquidationMetrics{
		Attempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Total number of liquidation attempts",
		}),
		Successes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "successes_total",
			Help:      "Total number of completed liquidations",
		}),
		Aborts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aborts_total",
			Help:      "Total number of aborted liquidations by reason",
		}, []string{"reason"}),
		ProfitTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profit_total",
			Help:      "Total realized profit in debt-asset native units",
		}),
		LoanVolume: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loan_volume_total",
			Help:      "Total flash loan volume in debt-asset native units",
		}),
		ExecutionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_time_seconds",
			Help:      "Time taken to execute a liquidation attempt",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ChainMetrics tracks on-chain submission activity.
type ChainMetrics struct {
	Submissions   prometheus.Counter
	Errors        prometheus.Counter
	GasPrice      prometheus.Histogram
	SubmitLatency prometheus.Histogram
}

// NewChainMetrics registers chain submission metrics on reg under the
// given namespace.
func NewChainMetrics(reg prometheus.Registerer, namespace string) *ChainMetrics {
	factory := promauto.With(reg)
	return &ChainMetrics{
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total number of liquidation transactions submitted",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of submission errors",
		}),
		GasPrice: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gas_price",
			Help:      "Gas price of submitted transactions",
			Buckets:   prometheus.ExponentialBuckets(1e9, 2, 15), // Start at 1 gwei
		}),
		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submit_latency_seconds",
			Help:      "Latency of transaction submission",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}
}
