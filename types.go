// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

// PacketQueue is a container of PDU slots that can be split exactly once
// into its producer half and its consumer half.
//
// Split transfers write ownership of the slot storage to the returned
// Producer and read ownership to the returned Consumer for the lifetime of
// the queue. A second Split panics: no code path may obtain a duplicate
// producer or consumer for the same queue.
//
// Implementations may use any capacity >= 1. [SimpleQueue] is the
// capacity-1 instance; [RingQueue] holds N slots.
type PacketQueue interface {
	// Split divides the queue into its two role handles. It may be called
	// exactly once; further calls panic.
	Split() (Producer, Consumer)
}

// Producer is the write half of a split queue. It must be used from a
// single execution context.
type Producer interface {
	// FreeSpace returns the number of payload bytes available for a single
	// Produce call: [MaxPayload] if a slot is free, 0 otherwise. The value
	// is deliberately coarse - a slot is either whole or absent, there is
	// no partial-capacity state.
	FreeSpace() int

	// Produce enqueues one PDU without copying. It hands build a bounded
	// [ByteWriter] over the free slot's payload region; the number of bytes
	// build writes becomes the header's payload length, and the returned
	// LLID becomes its tag. The completed slot is committed in one atomic
	// publish, so the consumer can never observe a partial PDU.
	//
	// payloadBytes declares the caller's upper bound for this PDU. A value
	// above [MaxPayload] is a framing bug in the layer above and panics
	// rather than truncating the wire format.
	//
	// Returns [ErrWouldBlock] if no slot is free - the caller retries or
	// drops per its own policy. If build fails, its error is returned
	// verbatim and nothing is enqueued.
	Produce(payloadBytes int, build func(w *ByteWriter) (LLID, error)) error
}

// Consumer is the read half of a split queue. It must be used from a
// single execution context.
type Consumer interface {
	// HasData reports whether a committed PDU is available, without
	// consuming it.
	HasData() bool

	// Consume peeks the oldest PDU, decodes its header, and invokes inspect
	// with the header and a payload view of exactly the declared length.
	// The slot is dequeued only if the returned [Verdict] asks for it;
	// otherwise the packet stays queued unchanged and the next Consume
	// observes the identical bytes.
	//
	// The payload slice aliases queue storage and must not be retained
	// after inspect returns.
	//
	// Returns [ErrWouldBlock] if the queue is empty and [ErrBadLength] if
	// the decoded length exceeds the slot bound (inspect is not invoked and
	// the slot stays queued). Otherwise returns Verdict.Err.
	Consume(inspect func(hdr Header, payload []byte) Verdict) error
}

// Verdict is an inspect callback's decision: whether the peeked packet
// should be removed from the queue, and the callback's own error, if any.
// The two are independent - a packet may be removed even though inspection
// failed, or retained on success to ride out downstream backpressure.
type Verdict struct {
	// Remove dequeues the inspected packet. The zero value retains it.
	Remove bool

	// Err is returned from Consume once the Remove decision is honored.
	Err error
}

// Inspect consumes with a typed result. It adapts a callback returning
// (R, Verdict) onto [Consumer.Consume], capturing the result across the
// callback boundary:
//
//	pdu, err := llq.Inspect(c, func(hdr llq.Header, payload []byte) (Packet, llq.Verdict) {
//	    return parse(hdr, payload), llq.Verdict{Remove: true}
//	})
//
// R is returned as its zero value when Consume fails before the callback
// runs (empty queue, bad length).
func Inspect[R any](c Consumer, f func(hdr Header, payload []byte) (R, Verdict)) (R, error) {
	var res R
	err := c.Consume(func(hdr Header, payload []byte) Verdict {
		var v Verdict
		res, v = f(hdr, payload)
		return v
	})
	return res, err
}

// New creates a packet queue with the given slot capacity.
//
// Capacity 1 selects [SimpleQueue], the minimal-RAM single-slot
// implementation. Larger capacities select [RingQueue] and round up to the
// next power of 2. Panics if capacity < 1.
func New(capacity int) PacketQueue {
	switch {
	case capacity < 1:
		panic("llq: capacity must be >= 1")
	case capacity == 1:
		return NewSimpleQueue()
	default:
		return NewRingQueue(capacity)
	}
}
