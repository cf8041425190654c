package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xterics", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xterics", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	LoginsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "xterics", Name: "logins_total", Help: "Number of completed OAuth logins."},
	)
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xterics", Name: "auth_rejected_total", Help: "Number of rejected session authentications by reason."},
		[]string{"reason"},
	)
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "xterics", Name: "orders_created_total", Help: "Number of orders placed by kind."},
		[]string{"kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LoginsTotal)
	reg.MustRegister(AuthRejected)
	reg.MustRegister(OrdersCreated)
}
