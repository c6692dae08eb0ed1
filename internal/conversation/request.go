package conversation

import (
	"context"
	"sync/atomic"
)

// RequestState is the lifecycle state of a pending request. Transitions are
// atomic and one-way: Pending -> Settled or Pending -> Cancelled. Cancelling
// a settled request (or vice versa) is a no-op by construction.
type RequestState int32

const (
	RequestPending RequestState = iota
	RequestSettled
	RequestCancelled
)

func (s RequestState) String() string {
	switch s {
	case RequestPending:
		return "pending"
	case RequestSettled:
		return "settled"
	case RequestCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PendingRequest tracks one in-flight agent response being computed. The
// request id correlates cancellation; the target turn id correlates the
// eventual patch, never array position.
type PendingRequest struct {
	ID           string
	TargetTurnID string

	state  atomic.Int32
	cancel context.CancelFunc
}

func newPendingRequest(id, targetTurnID string, cancel context.CancelFunc) *PendingRequest {
	return &PendingRequest{ID: id, TargetTurnID: targetTurnID, cancel: cancel}
}

// State returns the current lifecycle state.
func (r *PendingRequest) State() RequestState {
	return RequestState(r.state.Load())
}

// settle transitions Pending -> Settled. Returns false if the request was
// already settled or cancelled.
func (r *PendingRequest) settle() bool {
	return r.state.CompareAndSwap(int32(RequestPending), int32(RequestSettled))
}

// abort transitions Pending -> Cancelled and fires the cancellation.
// Returns false if the request had already left the pending state.
func (r *PendingRequest) abort() bool {
	if !r.state.CompareAndSwap(int32(RequestPending), int32(RequestCancelled)) {
		return false
	}
	if r.cancel != nil {
		r.cancel()
	}
	return true
}
