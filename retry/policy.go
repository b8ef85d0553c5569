package retry

import (
	"time"

	"get.pme.sh/atomix/util"
)

// MaxDelayCoeff caps a single delay at this multiple of the policy's backoff.
const MaxDelayCoeff = 20

type Policy struct {
	Attempts int           `json:"attempts,omitempty" yaml:"attempts,omitempty"` // Maximum attempts, negative for unlimited.
	Backoff  util.Duration `json:"backoff,omitempty" yaml:"backoff,omitempty"`   // Base delay between attempts.
	Timeout  util.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`   // Overall budget of a retrier.
}

func Basic() Policy {
	return Policy{
		Attempts: 8,
		Backoff:  util.Duration(500 * time.Millisecond),
		Timeout:  util.Duration(30 * time.Second),
	}
}

// Normalize fills unset fields with defaults.
func (p Policy) Normalize() Policy {
	if p.Attempts == 0 {
		p.Attempts = 8
	}
	p.Backoff = p.Backoff.Or(150 * time.Millisecond)
	p.Timeout = p.Timeout.Or(30 * time.Second)
	return p
}

// Allows reports whether attempt n (zero based) is within the policy.
func (p Policy) Allows(n int) bool {
	return p.Attempts < 0 || n < p.Attempts
}

// Step advances the attempt counter and grows the delay by backoff plus half.
func (p Policy) Step(step *int, delay *time.Duration) error {
	n := *step
	*step = n + 1
	if !p.Allows(n) {
		return ErrMaxAttemptsExceeded
	}
	if n == 0 {
		*delay = p.Backoff.Duration()
	} else {
		*delay += p.Backoff.Duration()
		*delay += *delay >> 1
	}
	*delay = min(*delay, p.Backoff.Duration()*MaxDelayCoeff)
	return nil
}
