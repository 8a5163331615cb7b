package sessionmetrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
)

// Collector counts session cookie decisions and rejected tokens.
type Collector struct {
	decisions  *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

var _ jwtsession.Observer = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sessionkit",
				Name:      "cookie_decisions_total",
				Help:      "Session cookie outcomes by decision.",
			},
			[]string{"decision"}, // none, refresh, issue, clear
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sessionkit",
				Name:      "token_rejections_total",
				Help:      "Session tokens ignored by reason.",
			},
			[]string{"reason"},
		),
	}

	// Decision series exist from the start.
	for _, d := range []jwtsession.Decision{
		jwtsession.DecisionNone,
		jwtsession.DecisionRefresh,
		jwtsession.DecisionIssue,
		jwtsession.DecisionClear,
	} {
		c.decisions.WithLabelValues(string(d))
	}

	return c
}

// ObserveDecision implements jwtsession.Observer.
func (c *Collector) ObserveDecision(_ context.Context, d jwtsession.Decision) {
	c.decisions.WithLabelValues(string(d)).Inc()
}

// ObserveRejection implements jwtsession.Observer.
func (c *Collector) ObserveRejection(_ context.Context, reason jwtsession.Reason, _ error) {
	c.rejections.WithLabelValues(string(reason)).Inc()
}
