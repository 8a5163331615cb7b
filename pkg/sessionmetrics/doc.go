// Package sessionmetrics exports jwtsession activity as Prometheus metrics:
//
//	sessionkit_cookie_decisions_total{decision="none|refresh|issue|clear"}
//	sessionkit_token_rejections_total{reason="malformed|decrypt|signature|expired|fingerprint|session_data"}
//
// Usage:
//
//	metrics := sessionmetrics.New(prometheus.DefaultRegisterer)
//	m, err := jwtsession.NewFromConfig(cfg, jwtsession.WithObserver(metrics))
package sessionmetrics
