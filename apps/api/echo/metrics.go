package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyai_http_requests_total",
		Help: "Handled HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	otpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyai_otp_requests_total",
		Help: "Verification codes requested by purpose and outcome.",
	}, []string{"purpose", "outcome"})
)

// metricsMiddleware counts requests once the error handler has written the response.
func metricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}
		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(ctx.Request().Method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		return nil
	}
}

func countOTPRequest(purpose string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	otpRequests.WithLabelValues(purpose, outcome).Inc()
}
