package receiver

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/roach88/visage/internal/frame"
)

// Address is the only OSC address pattern the receiver accepts.
const Address = "/visage"

// Decode parses one datagram into a Frame.
//
// The datagram must be a single OSC message (not a bundle) addressed to
// Address with exactly frame.Size numeric arguments. int32, int64, float32
// and float64 arguments are accepted. Any other shape returns a
// *ProtocolError.
func Decode(datagram []byte) (f frame.Frame, err error) {
	// go-osc indexes into the payload using lengths read from the wire
	defer func() {
		if r := recover(); r != nil {
			err = &ProtocolError{Reason: fmt.Sprintf("decoder panic: %v", r)}
		}
	}()

	packet, err := osc.ParsePacket(string(datagram))
	if err != nil {
		return f, &ProtocolError{Reason: "unparseable packet", Err: err}
	}

	msg, ok := packet.(*osc.Message)
	if !ok {
		return f, &ProtocolError{Reason: "bundles are not accepted"}
	}
	if msg.Address != Address {
		return f, &ProtocolError{Reason: fmt.Sprintf("unexpected address %q", msg.Address)}
	}
	if len(msg.Arguments) != frame.Size {
		return f, &ProtocolError{Reason: fmt.Sprintf("expected %d arguments, got %d", frame.Size, len(msg.Arguments))}
	}

	for i, arg := range msg.Arguments {
		v, ok := numeric(arg)
		if !ok {
			return f, &ProtocolError{Reason: fmt.Sprintf("argument %d is %T, not numeric", i, arg)}
		}
		f[i] = v
	}
	return f, nil
}

// Encode builds the datagram a capture client sends for f.
// Channels are written as float32, matching the capture app.
func Encode(f frame.Frame) ([]byte, error) {
	return NewMessage(f).MarshalBinary()
}

// NewMessage builds the OSC message for f.
func NewMessage(f frame.Frame) *osc.Message {
	msg := osc.NewMessage(Address)
	for _, v := range f {
		msg.Append(float32(v))
	}
	return msg
}

func numeric(arg interface{}) (float64, bool) {
	switch v := arg.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
