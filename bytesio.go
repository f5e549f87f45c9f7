// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

import "encoding/binary"

// ByteWriter is a bounded, position-tracking cursor over a caller-owned
// byte slice. It never allocates and never grows: once the buffer is
// exhausted every write fails with [ErrShortBuffer].
//
// Produce hands the build callback a ByteWriter over the slot's payload
// region and measures the written length from [ByteWriter.SpaceLeft].
type ByteWriter struct {
	buf []byte
	pos int
}

// NewByteWriter returns a ByteWriter writing into buf.
func NewByteWriter(buf []byte) *ByteWriter {
	return &ByteWriter{buf: buf}
}

// SpaceLeft returns the number of bytes that can still be written.
func (w *ByteWriter) SpaceLeft() int {
	return len(w.buf) - w.pos
}

// WriteByte appends a single byte.
func (w *ByteWriter) WriteByte(b byte) error {
	if w.pos >= len(w.buf) {
		return ErrShortBuffer
	}
	w.buf[w.pos] = b
	w.pos++
	return nil
}

// Write appends p in full, or writes nothing and returns [ErrShortBuffer].
// All-or-nothing keeps a failed build from leaving a torn payload prefix
// behind a committed length.
func (w *ByteWriter) Write(p []byte) error {
	if len(p) > w.SpaceLeft() {
		return ErrShortBuffer
	}
	w.pos += copy(w.buf[w.pos:], p)
	return nil
}

// WriteUint16LE appends v in little-endian byte order.
func (w *ByteWriter) WriteUint16LE(v uint16) error {
	if w.SpaceLeft() < 2 {
		return ErrShortBuffer
	}
	binary.LittleEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
	return nil
}

// ByteReader is the bounded read-side counterpart of [ByteWriter]. Reads
// advance a cursor over a caller-owned slice; running past the end fails
// with [ErrShortBuffer], never with an out-of-range slice.
type ByteReader struct {
	buf []byte
	pos int
}

// NewByteReader returns a ByteReader reading from buf.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf}
}

// Remaining returns the number of unread bytes.
func (r *ByteReader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadByte consumes and returns the next byte.
func (r *ByteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrShortBuffer
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadSlice consumes the next n bytes and returns them as a subslice of the
// underlying buffer. No copy is made; the result aliases the reader's
// storage and is valid only as long as that storage is.
func (r *ByteReader) ReadSlice(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrShortBuffer
	}
	s := r.buf[r.pos : r.pos+n]
	r.pos += n
	return s, nil
}

// ReadUint16LE consumes 2 bytes and returns them as a little-endian uint16.
func (r *ByteReader) ReadUint16LE() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, ErrShortBuffer
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}
