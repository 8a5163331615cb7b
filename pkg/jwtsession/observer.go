package jwtsession

import "context"

// Decision is the cookie outcome of one request.
type Decision string

const (
	DecisionNone    Decision = "none"    // no Set-Cookie header
	DecisionRefresh Decision = "refresh" // unchanged session, token re-signed
	DecisionIssue   Decision = "issue"   // changed session, new token
	DecisionClear   Decision = "clear"   // session emptied, clearing cookie
)

// Reason classifies why an incoming token was ignored.
type Reason string

const (
	ReasonMalformed   Reason = "malformed"
	ReasonDecrypt     Reason = "decrypt"
	ReasonSignature   Reason = "signature"
	ReasonExpired     Reason = "expired"
	ReasonFingerprint Reason = "fingerprint"
	ReasonSessionData Reason = "session_data"
)

// Observer receives per-request outcomes, e.g. for metrics or alerting on
// fingerprint mismatches. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDecision(ctx context.Context, d Decision)
	ObserveRejection(ctx context.Context, reason Reason, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(context.Context, Decision) {}
func (nopObserver) ObserveRejection(context.Context, Reason, error) {}
