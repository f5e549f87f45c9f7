// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

import "code.hybscloud.com/atomix"

// SimpleQueue is a packet queue that holds a single PDU.
//
// It targets the most constrained deployments: on top of the raw slot it
// keeps only two one-word indices and the split guard, and its hot path
// uses single-word atomic loads and stores exclusively - no read-modify-
// write - so it stays correct on cores that lack CAS-class instructions.
// No cache line padding either; on the microcontroller-class targets this
// variant exists for, the RAM matters more than false sharing.
//
// The zero value is an empty, ready-to-split queue, so it can live in a
// package-level var with no runtime initialization:
//
//	var rxQueue llq.SimpleQueue
//
// Memory: MaxPDU bytes of slot storage + 3 words of bookkeeping.
type SimpleQueue struct {
	head  atomix.Uint64 // Consumer dequeues here
	tail  atomix.Uint64 // Producer publishes here
	split atomix.Uint64 // One-shot Split guard
	buf   pdu
}

// NewSimpleQueue creates a new, empty single-slot queue.
func NewSimpleQueue() *SimpleQueue {
	return &SimpleQueue{}
}

// Split divides the queue into its producer and consumer halves. It may be
// called exactly once; a second call panics. The two handles are the only
// access paths to the slot and must each stay on one execution context.
func (q *SimpleQueue) Split() (Producer, Consumer) {
	if !q.split.CompareAndSwapAcqRel(0, 1) {
		panic("llq: queue already split")
	}
	return &SimpleProducer{q: q}, &SimpleConsumer{q: q}
}

// SimpleProducer is the write half returned by [SimpleQueue.Split].
// Single producer context only; must not be copied.
type SimpleProducer struct {
	q *SimpleQueue
}

// FreeSpace returns MaxPayload if the slot is free, 0 if it is occupied.
func (p *SimpleProducer) FreeSpace() int {
	q := p.q
	if q.tail.LoadRelaxed() != q.head.LoadAcquire() {
		return 0
	}
	return MaxPayload
}

// Produce builds one PDU directly in the slot and publishes it.
// Returns ErrWouldBlock while the slot is occupied.
func (p *SimpleProducer) Produce(payloadBytes int, build func(w *ByteWriter) (LLID, error)) error {
	checkPayloadSize(payloadBytes)

	q := p.q
	tail := q.tail.LoadRelaxed()
	if tail != q.head.LoadAcquire() {
		return ErrWouldBlock
	}

	// The slot is invisible to the consumer until the tail publish below,
	// so build can write into it in place: zero-copy, and a failed build
	// leaves nothing observable.
	if err := fillPDU(&q.buf, build); err != nil {
		return err
	}

	q.tail.StoreRelease(tail + 1)
	return nil
}

// SimpleConsumer is the read half returned by [SimpleQueue.Split].
// Single consumer context only; must not be copied.
type SimpleConsumer struct {
	q *SimpleQueue
}

// HasData reports whether a committed PDU is waiting.
func (c *SimpleConsumer) HasData() bool {
	q := c.q
	return q.head.LoadRelaxed() != q.tail.LoadAcquire()
}

// Consume peeks the queued PDU, runs inspect, and dequeues only on a
// Remove verdict. Returns ErrWouldBlock while the queue is empty.
func (c *SimpleConsumer) Consume(inspect func(hdr Header, payload []byte) Verdict) error {
	q := c.q
	head := q.head.LoadRelaxed()
	if head == q.tail.LoadAcquire() {
		return ErrWouldBlock
	}

	remove, err := inspectPDU(&q.buf, inspect)
	if remove {
		// Peek-then-dequeue cannot race: only this consumer advances head,
		// and the producer cannot reuse the slot before it does.
		q.head.StoreRelease(head + 1)
	}
	return err
}
