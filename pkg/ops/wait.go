package ops

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// Poller re-checks remote status through a receipt's poll descriptor. It
// returns the remote status plus any terminal failure detail.
type Poller func(ctx context.Context, poll *PollDescriptor) (Status, *OpError, error)

// WaitOptions bounds a wait loop.
type WaitOptions struct {
	// Deadline is the wall-clock budget across all poll iterations.
	Deadline time.Duration

	// InitialInterval seeds the exponential poll backoff. Defaults to
	// 500ms, capped at 5s between polls.
	InitialInterval time.Duration

	// Poll, when set, is invoked for receipts that carry a poll
	// descriptor; the registry is updated with whatever it reports.
	Poll Poller
}

// Wait polls the registry (and the remote poll endpoint when the receipt
// has one) until the operation reaches a terminal status or the deadline
// passes. The deadline is enforced across iterations regardless of
// individual poll outcomes; expiry raises TIMEOUT.
func (reg *Registry) Wait(ctx context.Context, opID string, opts WaitOptions) (Receipt, error) {
	if opts.Deadline <= 0 {
		opts.Deadline = 5 * time.Minute
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = opts.InitialInterval
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = opts.Deadline

	// aborted marks failures that end the wait on their own merits. Anything
	// else that falls out of the retry loop means the deadline budget ran
	// out, and the deadline is the binding outcome no matter what the last
	// poll reported.
	var aborted bool
	abort := func(err error) error {
		aborted = true
		return backoff.Permanent(err)
	}

	var result Receipt
	operation := func() error {
		r, err := reg.Get(opID)
		if err != nil {
			return abort(err)
		}

		if !r.Status.Terminal() && r.Poll != nil && opts.Poll != nil {
			status, opErr, pollErr := opts.Poll(ctx, r.Poll)
			if pollErr != nil {
				taxErr := errcode.From(pollErr)
				if !taxErr.Recoverable() {
					return abort(taxErr)
				}
				reg.log.Debug("poll attempt failed", "op_id", opID, "error", pollErr)
				return taxErr
			}
			if status != r.Status {
				r = r.Touch(Update{Status: status, Error: opErr})
				if err := reg.Update(r); err != nil {
					return abort(err)
				}
			}
		}

		if r.Status.Terminal() {
			result = r
			return nil
		}
		return errcode.Newf(errcode.Timeout, "operation %s still %s", opID, r.Status)
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		if aborted {
			return Receipt{}, errcode.From(err)
		}
		return Receipt{}, errcode.Newf(errcode.Timeout,
			"operation %s did not complete within %s", opID, opts.Deadline).
			WithSuggestion("re-run 'canvasctl ops wait' with a longer -deadline")
	}
	return result, nil
}
