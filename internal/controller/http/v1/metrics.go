package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const _opKey = "op"

var (
	_requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "couplecall",
		Name:      "signaling_requests_total",
		Help:      "Signaling requests by operation and status code.",
	}, []string{"op", "code"})

	_watchers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "couplecall",
		Name:      "watchers",
		Help:      "Open call watch connections.",
	})
)

func countRequests(c *gin.Context) {
	c.Next()

	op := c.GetString(_opKey)
	if op == "" {
		op = c.Request.Method + " " + c.FullPath()
	}

	_requests.WithLabelValues(op, strconv.Itoa(c.Writer.Status())).Inc()
}
