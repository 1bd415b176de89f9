package protocol

import (
	"errors"
	"fmt"

	"github.com/cardazim/cardazim/pkg/codec"
)

// MaxMessageSize bounds the payload a receiver is willing to allocate.
const MaxMessageSize = 256 << 20

// ErrProtocol is wrapped by every framing error.
var ErrProtocol = errors.New("protocol error")

// PackMessage frames payload as [Length(4)][Payload].
func PackMessage(payload []byte) []byte {
	buf := make([]byte, 0, codec.LengthSize+len(payload))
	buf = codec.AppendUint32(buf, uint32(len(payload)))
	return append(buf, payload...)
}

// UnpackMessage returns the payload of a complete frame. The frame must
// contain exactly the number of bytes its header declares.
func UnpackMessage(frame []byte) ([]byte, error) {
	length, offset, err := codec.ReadUint32(frame, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: frame of %d bytes has no length header", ErrProtocol, len(frame))
	}

	if available := len(frame) - offset; uint64(length) != uint64(available) {
		return nil, fmt.Errorf("%w: frame declares %d bytes, %d present", ErrProtocol, length, available)
	}

	return frame[offset:], nil
}
