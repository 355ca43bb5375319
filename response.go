package brcmfmac

import "fmt"

// A responseState is the state of a single vendor command exchange.
type responseState int

const (
	statePending responseState = iota
	stateSucceeded
	stateFailed
)

func (s responseState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// An eventKind identifies one of the message types the kernel may send in
// reply to a vendor command.
type eventKind int

const (
	// eventError carries a negative error code; it ends the exchange.
	eventError eventKind = iota

	// eventAck is a netlink acknowledgement. For set commands it may be the
	// only reply.
	eventAck

	// eventValid is a reply carrying vendor data. It does not end the
	// exchange on its own.
	eventValid

	// eventFinish ends a multi-part reply.
	eventFinish
)

func (k eventKind) String() string {
	switch k {
	case eventError:
		return "error"
	case eventAck:
		return "ack"
	case eventValid:
		return "valid"
	case eventFinish:
		return "finish"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// An event is a classified reply message.
type event struct {
	kind eventKind

	// code is the negative errno of an eventError.
	code int

	// data is the vendor data chunk of an eventValid, and err is set
	// instead if the message could not be parsed.
	data []byte
	err  error
}

// A response accumulates the outcome of one vendor command exchange. It is
// only mutated by dispatch.
type response struct {
	state responseState
	data  []byte
	err   error
}

// pending reports whether the exchange needs more messages.
func (r *response) pending() bool { return r.state == statePending }

// dispatch applies e to r. Events which arrive after r has left the pending
// state are ignored.
func (r *response) dispatch(e event) {
	if !r.pending() {
		return
	}

	switch e.kind {
	case eventError:
		r.fail(&RemoteError{Code: e.code})
	case eventAck, eventFinish:
		r.state = stateSucceeded
	case eventValid:
		if e.err != nil {
			r.fail(e.err)
			return
		}

		// Large replies are split by the driver into several messages, one
		// chunk each.
		r.data = append(r.data, e.data...)
	}
}

// fail ends the exchange with err, discarding any data received so far.
func (r *response) fail(err error) {
	r.state = stateFailed
	r.data = nil
	r.err = err
}

// result returns the terminal outcome of r.
func (r *response) result() ([]byte, error) {
	switch r.state {
	case stateSucceeded:
		return r.data, nil
	case stateFailed:
		return nil, r.err
	default:
		return nil, fmt.Errorf("%w: reply ended while %s", ErrReceiveFailure, r.state)
	}
}
