package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

const (
	// MaxDirectPushLen is the largest payload encoded with a bare 1-byte
	// length opcode.
	MaxDirectPushLen = 75

	// MaxPushData1Len is the largest payload encoded with OP_PUSHDATA1.
	MaxPushData1Len = 255

	// MaxPayloadLen is the largest payload this codec represents,
	// encoded with OP_PUSHDATA2 (2-byte little-endian length).
	MaxPayloadLen = 65535

	// RootSize is the length of a Merkle root payload in bytes.
	RootSize = 32
)

// EncodeOPReturn encodes a payload into a data-carrying OP_RETURN script.
//
// Layout: OP_RETURN, then a push-data header chosen by payload size
// (direct length for <=75 bytes, OP_PUSHDATA1 for 76-255, OP_PUSHDATA2
// with little-endian length for 256-65535), then the raw payload bytes.
func EncodeOPReturn(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrInvalidPayload
	}
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(payload), MaxPayloadLen)
	}

	var out []byte
	switch n := len(payload); {
	case n <= MaxDirectPushLen:
		out = make([]byte, 0, 2+n)
		out = append(out, script.OpRETURN, byte(n))
	case n <= MaxPushData1Len:
		out = make([]byte, 0, 3+n)
		out = append(out, script.OpRETURN, script.OpPUSHDATA1, byte(n))
	default:
		out = make([]byte, 0, 4+n)
		var lenLE [2]byte
		binary.LittleEndian.PutUint16(lenLE[:], uint16(n))
		out = append(out, script.OpRETURN, script.OpPUSHDATA2, lenLE[0], lenLE[1])
	}
	return append(out, payload...), nil
}

// DecodeOPReturn recovers the payload from a script produced by
// EncodeOPReturn. It is a total inverse: any script that does not carry
// the OP_RETURN marker, declares more bytes than are present, or carries
// trailing garbage is rejected rather than silently truncated.
func DecodeOPReturn(s []byte) ([]byte, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: script too short (%d bytes)", ErrInvalidOPReturn, len(s))
	}
	if s[0] != script.OpRETURN {
		return nil, fmt.Errorf("%w: missing OP_RETURN marker (0x%02x)", ErrInvalidOPReturn, s[0])
	}

	var declared int
	var body []byte

	switch header := s[1]; {
	case header <= MaxDirectPushLen:
		declared = int(header)
		body = s[2:]
	case header == script.OpPUSHDATA1:
		if len(s) < 3 {
			return nil, fmt.Errorf("%w: truncated OP_PUSHDATA1 header", ErrInvalidOPReturn)
		}
		declared = int(s[2])
		body = s[3:]
	case header == script.OpPUSHDATA2:
		if len(s) < 4 {
			return nil, fmt.Errorf("%w: truncated OP_PUSHDATA2 header", ErrInvalidOPReturn)
		}
		declared = int(binary.LittleEndian.Uint16(s[2:4]))
		body = s[4:]
	default:
		return nil, fmt.Errorf("%w: unsupported push opcode 0x%02x", ErrInvalidOPReturn, header)
	}

	if declared == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidOPReturn)
	}
	if len(body) < declared {
		return nil, fmt.Errorf("%w: declared %d payload bytes, found %d", ErrInvalidOPReturn, declared, len(body))
	}
	if len(body) > declared {
		return nil, fmt.Errorf("%w: %d trailing bytes after payload", ErrInvalidOPReturn, len(body)-declared)
	}

	payload := make([]byte, declared)
	copy(payload, body)
	return payload, nil
}

// IsOPReturn reports whether a locking script is a data-carrying output,
// either bare OP_RETURN or the OP_FALSE OP_RETURN form some chains use.
// The second return value is the offset of the OP_RETURN marker.
func IsOPReturn(s []byte) (bool, int) {
	if len(s) > 0 && s[0] == script.OpRETURN {
		return true, 0
	}
	if len(s) > 1 && s[0] == script.Op0 && s[1] == script.OpRETURN {
		return true, 1
	}
	return false, 0
}
