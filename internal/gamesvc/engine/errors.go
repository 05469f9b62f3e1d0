package engine

import "errors"

// Command rejections. None of them affects the round timeline.
var (
	ErrUnauthenticated     = errors.New("no authenticated user")
	ErrInvalidAmount       = errors.New("invalid bet amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrNoActivePosition    = errors.New("no active position to cash out")
	ErrInvalidTarget       = errors.New("invalid target multiplier")
)

// Fatal errors. A scheduler cannot produce an outcome without entropy.
var (
	ErrNoEntropy = errors.New("entropy source missing")
	ErrEntropy   = errors.New("entropy source returned a value outside [0,1)")
)

var reasons = map[error]string{
	ErrUnauthenticated:     "unauthenticated",
	ErrInvalidAmount:       "invalid_amount",
	ErrInsufficientBalance: "insufficient_balance",
	ErrWrongPhase:          "wrong_phase",
	ErrNoActivePosition:    "no_active_position",
	ErrInvalidTarget:       "invalid_target",
}

// Reason returns the wire code for a rejected command, or "internal" when err is
// not a rejection.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for e, code := range reasons {
		if errors.Is(err, e) {
			return code
		}
	}
	return "internal"
}

// IsFatal reports whether err must stop the scheduler.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoEntropy) || errors.Is(err, ErrEntropy)
}
