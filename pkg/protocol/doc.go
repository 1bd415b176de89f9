// Package protocol moves opaque messages between a card producer and a
// collector over TCP.
//
// # Frame Format
//
// Every message is sent as one frame:
//
//	[Length(4)][Payload]
//
// Length is an unsigned 32-bit little-endian integer equal to the number
// of payload bytes that follow. A connection carries exactly the frames
// written to it; there is no handshake and no acknowledgement.
//
// # Usage
//
//	conn, err := protocol.Connect(ctx, "127.0.0.1", 8000)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//	err = conn.SendMessage(payload)
//
// The receiving side accepts connections from a [Listener] and calls
// [Connection.ReceiveMessage], which blocks until a full frame arrives.
//
// # Error Handling
//
// Frames that are short, whose declared length disagrees with the bytes
// present, or that exceed [MaxMessageSize] wrap [ErrProtocol]. A stream
// that closes cleanly before any byte of a new frame returns io.EOF.
package protocol
