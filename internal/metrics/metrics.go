package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_api_requests_total",
		Help: "Outbound REST API calls by method and status code.",
	}, []string{"method", "status"})

	SessionExpiries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_session_expiries_total",
		Help: "Sessions cleared after the API answered 401.",
	})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_logins_total",
		Help: "Login attempts by actor type and outcome.",
	}, []string{"actor", "outcome"})
)
