// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package llq provides the packet-queue layer of a link-layer radio stack:
// a zero-copy, allocation-free, non-blocking single-producer single-consumer
// transport for fixed-format data-channel PDUs.
//
// The queue sits between a time-critical radio context (interrupt handler or
// driver loop) and the link-layer task that processes packets. One side acts
// strictly as producer, the other strictly as consumer; they may preempt each
// other but never share a role.
//
// # Quick Start
//
//	var queue llq.SimpleQueue
//	p, c := queue.Split()
//
//	// Radio context: enqueue a PDU without copying.
//	err := p.Produce(4, func(w *llq.ByteWriter) (llq.LLID, error) {
//	    w.Write([]byte{1, 2, 3, 4})
//	    return llq.LLIDDataStart, nil
//	})
//	if llq.IsWouldBlock(err) {
//	    // Queue full - drop or retry per driver policy.
//	}
//
//	// Link-layer task: peek, then decide whether to take the packet.
//	err = c.Consume(func(hdr llq.Header, payload []byte) llq.Verdict {
//	    if !downstreamReady() {
//	        return llq.Verdict{} // leave it queued, retry later
//	    }
//	    process(hdr, payload)
//	    return llq.Verdict{Remove: true}
//	})
//
// # PDU Format
//
// Each slot holds one PDU: a 2-byte header (LLID tag, flag bits, payload
// length) immediately followed by up to [MaxPayload] payload bytes. The
// header codec is lenient - any 2 bytes decode to a structurally valid
// header. Length-vs-capacity validation happens at produce time (measured,
// never trusted) and at consume time (bounds-checked read).
//
// # Queue Variants
//
// Two implementations satisfy [PacketQueue]:
//
//	SimpleQueue - capacity 1, minimal bookkeeping on top of the raw slot.
//	              Index handoff uses single-word loads and stores only, so
//	              it stays correct on cores without atomic read-modify-write.
//	RingQueue   - capacity N (power of 2), Lamport ring buffer with cached
//	              indices, FIFO across slots.
//
// [New] selects the variant from the requested capacity.
//
// # Ownership Split
//
// A queue is split exactly once into a [Producer] and a [Consumer] handle;
// a second Split panics. The handles are the only way to touch the slot
// storage, and each must stay on its own execution context. This is the
// runtime rendition of a move-semantics split: after Split, no code path can
// obtain a duplicate producer or consumer.
//
// # Non-Consuming Peek
//
// Consume invokes the inspect callback with the decoded header and a
// payload view into the slot, then honors the returned [Verdict]: Remove
// dequeues the slot, otherwise the packet stays queued unchanged and the
// next Consume observes the identical bytes. This is how a consumer under
// downstream backpressure defers a packet without losing or duplicating it.
//
// The payload slice aliases queue storage and is only valid inside the
// callback.
//
// # Error Handling
//
// Operations return [ErrWouldBlock] when they cannot proceed: Produce on a
// full queue, Consume on an empty one. This is a control flow signal, not a
// failure, sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    err := p.Produce(n, build)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !llq.IsWouldBlock(err) {
//	        return err // build callback failed
//	    }
//	    backoff.Wait()
//	}
//
// A build callback error propagates verbatim and nothing is enqueued. A
// decoded payload length that exceeds the slot bound surfaces as
// [ErrBadLength] rather than an out-of-range slice. Requesting more than
// [MaxPayload] bytes from Produce is a caller contract violation and panics.
//
// # Thread Safety
//
// All operations are non-blocking and bounded-time - safe to call from
// interrupt-style contexts. Exactly one goroutine (or execution context) may
// use the producer handle and exactly one the consumer handle. Violating the
// SPSC discipline causes undefined behavior including data corruption.
//
// # Race Detection
//
// The index handoff synchronizes through atomic acquire-release orderings
// that Go's race detector cannot observe, so concurrent tests may report
// false positives under -race. Tests incompatible with race detection check
// [RaceEnabled].
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause instructions.
package llq
