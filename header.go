// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package llq

// Data-channel PDU sizing. MaxPayload is the minimum payload buffer every
// radio must support for data-channel PDUs; a slot holds one header plus one
// maximum-size payload.
const (
	// HeaderSize is the encoded size of a data-channel PDU header.
	HeaderSize = 2

	// MaxPayload is the maximum payload length of a single PDU.
	MaxPayload = 27

	// MaxPDU is the size of one queue slot: header plus maximum payload.
	MaxPDU = HeaderSize + MaxPayload
)

// LLID identifies the logical channel and content type of a data-channel
// PDU payload. It occupies the low 2 bits of the first header byte.
type LLID uint8

const (
	// LLIDReserved is not used by the protocol; received PDUs carrying it
	// are ignored by upper layers.
	LLIDReserved LLID = 0b00

	// LLIDDataCont marks a continuation fragment of an L2CAP message, or
	// an empty PDU.
	LLIDDataCont LLID = 0b01

	// LLIDDataStart marks the start of an L2CAP message or a complete
	// unfragmented message.
	LLIDDataStart LLID = 0b10

	// LLIDControl marks an LL control PDU.
	LLIDControl LLID = 0b11
)

// String returns a short mnemonic for the LLID value.
func (l LLID) String() string {
	switch l {
	case LLIDDataCont:
		return "DataCont"
	case LLIDDataStart:
		return "DataStart"
	case LLIDControl:
		return "Control"
	default:
		return "Reserved"
	}
}

// Header is a 16-bit data-channel PDU header.
//
// Wire layout, fixed, no padding:
//
//	byte 0: LLID (bits 0-1), NESN (bit 2), SN (bit 3), MD (bit 4),
//	        bits 5-7 reserved (preserved as read)
//	byte 1: payload length
//
// The codec has no failure path: any 2-byte sequence decodes to a
// structurally valid Header. The payload length is deliberately not checked
// against slot capacity here - Produce writes only measured lengths, and
// Consume bounds-checks the length before slicing, so the check lives at
// the queue boundary where a violation can be reported.
type Header struct {
	raw [HeaderSize]byte
}

const (
	llidMask = 0b0000_0011
	nesnBit  = 0b0000_0100
	snBit    = 0b0000_1000
	mdBit    = 0b0001_0000
)

// NewHeader returns a Header with the given LLID and all flag bits clear.
func NewHeader(llid LLID) Header {
	var h Header
	h.SetLLID(llid)
	return h
}

// DecodeHeader reads a Header from the first 2 bytes of buf.
// Panics if buf is shorter than [HeaderSize].
func DecodeHeader(buf []byte) Header {
	return Header{raw: [HeaderSize]byte{buf[0], buf[1]}}
}

// EncodeTo writes the 2-byte encoding into the first 2 bytes of buf.
// Panics if buf is shorter than [HeaderSize].
func (h Header) EncodeTo(buf []byte) {
	buf[0] = h.raw[0]
	buf[1] = h.raw[1]
}

// LLID returns the logical link identifier.
func (h Header) LLID() LLID {
	return LLID(h.raw[0] & llidMask)
}

// SetLLID replaces the logical link identifier, leaving flag bits intact.
func (h *Header) SetLLID(llid LLID) {
	h.raw[0] = h.raw[0]&^llidMask | byte(llid)&llidMask
}

// NESN returns the "next expected sequence number" bit.
func (h Header) NESN() bool {
	return h.raw[0]&nesnBit != 0
}

// SetNESN sets or clears the "next expected sequence number" bit.
func (h *Header) SetNESN(v bool) {
	h.setFlag(nesnBit, v)
}

// SN returns the "sequence number" bit.
func (h Header) SN() bool {
	return h.raw[0]&snBit != 0
}

// SetSN sets or clears the "sequence number" bit.
func (h *Header) SetSN(v bool) {
	h.setFlag(snBit, v)
}

// MD returns the "more data" bit.
func (h Header) MD() bool {
	return h.raw[0]&mdBit != 0
}

// SetMD sets or clears the "more data" bit.
func (h *Header) SetMD(v bool) {
	h.setFlag(mdBit, v)
}

// PayloadLength returns the declared payload length in bytes.
func (h Header) PayloadLength() uint8 {
	return h.raw[1]
}

// SetPayloadLength replaces the declared payload length.
func (h *Header) SetPayloadLength(n uint8) {
	h.raw[1] = n
}

func (h *Header) setFlag(bit byte, v bool) {
	if v {
		h.raw[0] |= bit
	} else {
		h.raw[0] &^= bit
	}
}
