// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq_test

import (
	"bytes"
	"errors"
	"testing"

	"code.hybscloud.com/llq"
)

// =============================================================================
// PacketQueue Contract Suite
//
// Every PacketQueue implementation must satisfy the same produce/consume
// contract. The suite runs against a fresh queue per subtest.
// =============================================================================

var queueVariants = []struct {
	name string
	make func() llq.PacketQueue
}{
	{"SimpleQueue", func() llq.PacketQueue { return llq.NewSimpleQueue() }},
	{"RingQueue", func() llq.PacketQueue { return llq.NewRingQueue(4) }},
}

func TestQueueContract(t *testing.T) {
	for _, variant := range queueVariants {
		t.Run(variant.name, func(t *testing.T) {
			t.Run("RoundTripAllSizes", func(t *testing.T) { testRoundTripAllSizes(t, variant.make()) })
			t.Run("EmptyQueue", func(t *testing.T) { testEmptyQueue(t, variant.make()) })
			t.Run("RetainThenRemove", func(t *testing.T) { testRetainThenRemove(t, variant.make()) })
			t.Run("FailingBuild", func(t *testing.T) { testFailingBuild(t, variant.make()) })
			t.Run("InspectError", func(t *testing.T) { testInspectError(t, variant.make()) })
			t.Run("SplitTwicePanics", func(t *testing.T) { testSplitTwicePanics(t, variant.make()) })
			t.Run("EndToEnd", func(t *testing.T) { testEndToEnd(t, variant.make()) })
		})
	}
}

// testRoundTripAllSizes produces then consumes one PDU for every payload
// size 0..MaxPayload and checks header and payload byte-for-byte.
func testRoundTripAllSizes(t *testing.T, queue llq.PacketQueue) {
	p, c := queue.Split()

	for size := 0; size <= llq.MaxPayload; size++ {
		want := make([]byte, size)
		for i := range want {
			want[i] = byte(size + i)
		}

		err := p.Produce(size, func(w *llq.ByteWriter) (llq.LLID, error) {
			if err := w.Write(want); err != nil {
				return 0, err
			}
			return llq.LLIDDataStart, nil
		})
		if err != nil {
			t.Fatalf("Produce(%d): %v", size, err)
		}

		err = c.Consume(func(hdr llq.Header, payload []byte) llq.Verdict {
			if hdr.LLID() != llq.LLIDDataStart {
				t.Fatalf("size %d: LLID: got %v, want %v", size, hdr.LLID(), llq.LLIDDataStart)
			}
			if int(hdr.PayloadLength()) != size {
				t.Fatalf("size %d: PayloadLength: got %d, want %d", size, hdr.PayloadLength(), size)
			}
			if !bytes.Equal(payload, want) {
				t.Fatalf("size %d: payload: got %v, want %v", size, payload, want)
			}
			return llq.Verdict{Remove: true}
		})
		if err != nil {
			t.Fatalf("Consume(%d): %v", size, err)
		}
	}
}

// testEmptyQueue checks the consumer side of a queue that has never held
// data.
func testEmptyQueue(t *testing.T, queue llq.PacketQueue) {
	_, c := queue.Split()

	if c.HasData() {
		t.Fatal("HasData on empty queue: got true, want false")
	}
	err := c.Consume(func(llq.Header, []byte) llq.Verdict {
		t.Fatal("inspect invoked on empty queue")
		return llq.Verdict{}
	})
	if !errors.Is(err, llq.ErrWouldBlock) {
		t.Fatalf("Consume on empty: got %v, want ErrWouldBlock", err)
	}
}

// testRetainThenRemove checks the non-consuming peek: a Retain verdict
// leaves the identical packet queued, and Remove frees the slot for the
// next Produce.
func testRetainThenRemove(t *testing.T, queue llq.PacketQueue) {
	p, c := queue.Split()

	if err := produceBytes(p, llq.LLIDControl, []byte{0xCA, 0xFE}); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	var first []byte
	err := c.Consume(func(hdr llq.Header, payload []byte) llq.Verdict {
		first = append(first, payload...) // copy: the view dies with the callback
		return llq.Verdict{}              // retain
	})
	if err != nil {
		t.Fatalf("Consume (retain): %v", err)
	}
	if !c.HasData() {
		t.Fatal("HasData after retain: got false, want true")
	}

	err = c.Consume(func(hdr llq.Header, payload []byte) llq.Verdict {
		if hdr.LLID() != llq.LLIDControl || hdr.PayloadLength() != 2 {
			t.Fatalf("re-peek header: got {%v %d}, want {Control 2}", hdr.LLID(), hdr.PayloadLength())
		}
		if !bytes.Equal(payload, first) {
			t.Fatalf("re-peek payload: got %v, want %v", payload, first)
		}
		return llq.Verdict{Remove: true}
	})
	if err != nil {
		t.Fatalf("Consume (remove): %v", err)
	}
	if c.HasData() {
		t.Fatal("HasData after remove: got true, want false")
	}
	if err := produceBytes(p, llq.LLIDDataCont, []byte{1}); err != nil {
		t.Fatalf("Produce after remove: %v", err)
	}
}

// testFailingBuild checks that a build error enqueues nothing and
// propagates verbatim.
func testFailingBuild(t *testing.T, queue llq.PacketQueue) {
	p, c := queue.Split()

	buildErr := errors.New("upstream encoding problem")
	err := p.Produce(4, func(w *llq.ByteWriter) (llq.LLID, error) {
		w.WriteByte(0xEE) // partial write must stay invisible
		return 0, buildErr
	})
	if !errors.Is(err, buildErr) {
		t.Fatalf("Produce with failing build: got %v, want %v", err, buildErr)
	}
	if c.HasData() {
		t.Fatal("HasData after failed build: got true, want false")
	}

	// The slot must be reusable, with no trace of the aborted build.
	if err := produceBytes(p, llq.LLIDDataStart, []byte{5, 6}); err != nil {
		t.Fatalf("Produce after failed build: %v", err)
	}
	err = c.Consume(func(hdr llq.Header, payload []byte) llq.Verdict {
		if !bytes.Equal(payload, []byte{5, 6}) {
			t.Fatalf("payload after failed build: got %v, want [5 6]", payload)
		}
		return llq.Verdict{Remove: true}
	})
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
}

// testInspectError checks that Verdict.Err propagates independently of the
// Remove decision.
func testInspectError(t *testing.T, queue llq.PacketQueue) {
	p, c := queue.Split()

	if err := produceBytes(p, llq.LLIDDataStart, []byte{1}); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	inspectErr := errors.New("downstream rejected packet")
	err := c.Consume(func(llq.Header, []byte) llq.Verdict {
		return llq.Verdict{Err: inspectErr} // failed AND retained
	})
	if !errors.Is(err, inspectErr) {
		t.Fatalf("Consume: got %v, want %v", err, inspectErr)
	}
	if !c.HasData() {
		t.Fatal("HasData after failed retain: got false, want true")
	}

	err = c.Consume(func(llq.Header, []byte) llq.Verdict {
		return llq.Verdict{Remove: true, Err: inspectErr} // failed AND removed
	})
	if !errors.Is(err, inspectErr) {
		t.Fatalf("Consume: got %v, want %v", err, inspectErr)
	}
	if c.HasData() {
		t.Fatal("HasData after failed remove: got true, want false")
	}
}

// testSplitTwicePanics checks the one-shot ownership split.
func testSplitTwicePanics(t *testing.T, queue llq.PacketQueue) {
	queue.Split()

	defer func() {
		if recover() == nil {
			t.Fatal("second Split did not panic")
		}
	}()
	queue.Split()
}

// testEndToEnd replays the full radio scenario: produce, observe, consume,
// reuse.
func testEndToEnd(t *testing.T, queue llq.PacketQueue) {
	p, c := queue.Split()

	if p.FreeSpace() != llq.MaxPayload {
		t.Fatalf("FreeSpace on empty: got %d, want %d", p.FreeSpace(), llq.MaxPayload)
	}

	err := p.Produce(4, func(w *llq.ByteWriter) (llq.LLID, error) {
		if err := w.Write([]byte{1, 2, 3, 4}); err != nil {
			return 0, err
		}
		return llq.LLIDDataStart, nil
	})
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if !c.HasData() {
		t.Fatal("HasData after produce: got false, want true")
	}

	hdr, err := llq.Inspect(c, func(hdr llq.Header, payload []byte) (llq.Header, llq.Verdict) {
		if !bytes.Equal(payload, []byte{1, 2, 3, 4}) {
			t.Fatalf("payload: got %v, want [1 2 3 4]", payload)
		}
		return hdr, llq.Verdict{Remove: true}
	})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if hdr.LLID() != llq.LLIDDataStart || hdr.PayloadLength() != 4 {
		t.Fatalf("header: got {%v %d}, want {DataStart 4}", hdr.LLID(), hdr.PayloadLength())
	}
	if c.HasData() {
		t.Fatal("HasData after consume: got true, want false")
	}

	// Slot is free again.
	if err := produceBytes(p, llq.LLIDDataCont, []byte{9}); err != nil {
		t.Fatalf("Produce after consume: %v", err)
	}
}

// produceBytes enqueues a fixed payload under the given LLID.
func produceBytes(p llq.Producer, llid llq.LLID, payload []byte) error {
	return p.Produce(len(payload), func(w *llq.ByteWriter) (llq.LLID, error) {
		if err := w.Write(payload); err != nil {
			return 0, err
		}
		return llid, nil
	})
}
