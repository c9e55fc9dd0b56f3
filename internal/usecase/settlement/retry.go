package settlement

import "time"

// RetryPolicy bounds ledger submission attempts. It is plain configuration
// rather than inline control flow so the schedule is testable on its own.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2,
	}
}

// Delay returns the backoff before the given retry. Attempts are 1-based;
// the first attempt carries no delay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 2; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// ConfirmPolicy bounds confirmation polling. Finality on the ledger is
// probabilistic: the first check waits a fixed settle delay, and a bounded
// number of polls separates "not yet visible" from "failed". Running out of
// polls means unknown, not failed.
type ConfirmPolicy struct {
	SettleDelay  time.Duration
	PollInterval time.Duration
	MaxPolls     int
}

func DefaultConfirmPolicy() ConfirmPolicy {
	return ConfirmPolicy{
		SettleDelay:  2 * time.Second,
		PollInterval: time.Second,
		MaxPolls:     30,
	}
}
