// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

import "code.hybscloud.com/atomix"

// RingQueue is a packet queue holding N PDU slots.
//
// Based on Lamport's ring buffer with cached index optimization: the
// producer caches the consumer's dequeue index and vice versa, reducing
// cross-core cache line traffic. Slots are dequeued in FIFO order.
//
// Unlike [SimpleQueue], RingQueue assumes a full-featured core and spends
// RAM on cache line padding between the index fields.
//
// Memory: capacity × MaxPDU bytes of slot storage + O(1) bookkeeping.
type RingQueue struct {
	_          pad
	head       atomix.Uint64 // Consumer dequeues here
	_          pad
	cachedTail uint64 // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer publishes here
	_          pad
	cachedHead uint64 // Producer's cached view of head
	_          pad
	split      atomix.Uint64 // One-shot Split guard
	buffer     []pdu
	mask       uint64
}

// NewRingQueue creates a new ring queue.
// Capacity rounds up to the next power of 2. Panics if capacity < 2;
// use [SimpleQueue] for a single slot.
func NewRingQueue(capacity int) *RingQueue {
	if capacity < 2 {
		panic("llq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	return &RingQueue{
		buffer: make([]pdu, n),
		mask:   n - 1,
	}
}

// Cap returns the slot capacity of the queue.
func (q *RingQueue) Cap() int {
	return int(q.mask + 1)
}

// Split divides the queue into its producer and consumer halves. It may be
// called exactly once; a second call panics.
func (q *RingQueue) Split() (Producer, Consumer) {
	if !q.split.CompareAndSwapAcqRel(0, 1) {
		panic("llq: queue already split")
	}
	return &RingProducer{q: q}, &RingConsumer{q: q}
}

// RingProducer is the write half returned by [RingQueue.Split].
// Single producer context only; must not be copied.
type RingProducer struct {
	q *RingQueue
}

// FreeSpace returns MaxPayload if at least one slot is free, 0 otherwise.
// Like the single-slot variant this is coarse: one Produce fills exactly
// one slot, so per-byte accounting would add nothing.
func (p *RingProducer) FreeSpace() int {
	q := p.q
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return 0
		}
	}
	return MaxPayload
}

// Produce builds one PDU directly in the tail slot and publishes it.
// Returns ErrWouldBlock while all slots are occupied.
func (p *RingProducer) Produce(payloadBytes int, build func(w *ByteWriter) (LLID, error)) error {
	checkPayloadSize(payloadBytes)

	q := p.q
	tail := q.tail.LoadRelaxed()
	if tail-q.cachedHead > q.mask {
		q.cachedHead = q.head.LoadAcquire()
		if tail-q.cachedHead > q.mask {
			return ErrWouldBlock
		}
	}

	// In-place build: the slot stays invisible until the tail publish.
	if err := fillPDU(&q.buffer[tail&q.mask], build); err != nil {
		return err
	}

	q.tail.StoreRelease(tail + 1)
	return nil
}

// RingConsumer is the read half returned by [RingQueue.Split].
// Single consumer context only; must not be copied.
type RingConsumer struct {
	q *RingQueue
}

// HasData reports whether a committed PDU is waiting.
func (c *RingConsumer) HasData() bool {
	q := c.q
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			return false
		}
	}
	return true
}

// Consume peeks the oldest PDU, runs inspect, and dequeues only on a
// Remove verdict. Returns ErrWouldBlock while the queue is empty.
func (c *RingConsumer) Consume(inspect func(hdr Header, payload []byte) Verdict) error {
	q := c.q
	head := q.head.LoadRelaxed()
	if head >= q.cachedTail {
		q.cachedTail = q.tail.LoadAcquire()
		if head >= q.cachedTail {
			return ErrWouldBlock
		}
	}

	remove, err := inspectPDU(&q.buffer[head&q.mask], inspect)
	if remove {
		q.head.StoreRelease(head + 1)
	}
	return err
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
