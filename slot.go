// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

// pdu is one queue slot: a 2-byte header followed by the payload region.
// A slot is never partially valid - it is either free or holds a complete
// header+payload, because fillPDU runs entirely before the index publish.
type pdu [MaxPDU]byte

// checkPayloadSize aborts on a Produce request larger than the slot's
// payload region. Such a request is a framing bug in the layer above;
// truncating it would corrupt the wire format, so this is a panic, not an
// error. Runs before the capacity check so the bug surfaces even against a
// full queue.
func checkPayloadSize(payloadBytes int) {
	if payloadBytes > MaxPayload {
		panic("llq: requested payload exceeds MaxPayload")
	}
}

// fillPDU builds one PDU in place: it runs build against a bounded writer
// over the payload region, measures how many bytes were written, and
// encodes the header into the first 2 bytes. Shared by both queue
// implementations; the caller publishes the slot afterwards.
//
// The caller has already rejected oversized requests via checkPayloadSize.
// If build fails, the slot contents are unspecified and must not be
// published.
func fillPDU(s *pdu, build func(w *ByteWriter) (LLID, error)) error {
	w := NewByteWriter(s[HeaderSize:])
	free := w.SpaceLeft()
	llid, err := build(w)
	if err != nil {
		return err
	}
	used := free - w.SpaceLeft()

	hdr := NewHeader(llid)
	hdr.SetPayloadLength(uint8(used))
	hdr.EncodeTo(s[:HeaderSize])
	return nil
}

// inspectPDU decodes the slot's header, slices out exactly the declared
// payload, and runs inspect. It reports whether the caller should dequeue
// the slot, and the error to return from Consume.
//
// A declared length beyond the payload region is a protocol-integrity
// fault: inspect is not invoked, the slot is not dequeued, and the
// bounds-check failure surfaces as ErrBadLength.
func inspectPDU(s *pdu, inspect func(hdr Header, payload []byte) Verdict) (remove bool, err error) {
	r := NewByteReader(s[:])
	raw, _ := r.ReadSlice(HeaderSize) // slot is MaxPDU bytes, cannot fail
	hdr := DecodeHeader(raw)

	payload, err := r.ReadSlice(int(hdr.PayloadLength()))
	if err != nil {
		return false, ErrBadLength
	}

	v := inspect(hdr, payload)
	return v.Remove, v.Err
}
