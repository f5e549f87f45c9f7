// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Produce: the queue is full (backpressure)
// For Consume: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The radio driver
// loop decides whether to retry later or drop the unit; the queue never
// retries internally.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrBadLength indicates a decoded header declared a payload length larger
// than the physical slot bound. This is a protocol-integrity fault from the
// layer above (or a corrupted slot), surfaced instead of an out-of-range
// slice. The packet stays queued; the inspect callback is not invoked.
var ErrBadLength = errors.New("llq: payload length exceeds slot capacity")

// ErrShortBuffer indicates a bounded cursor ran out of space: a ByteWriter
// write past the end of its buffer, or a ByteReader read past the end of its
// data. Distinct from queue-state errors so callers can tell a framing
// problem from backpressure.
var ErrShortBuffer = errors.New("llq: short buffer")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
