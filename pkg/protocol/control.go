package protocol

import "fmt"

// Protocol version carried in the hello exchange.
const Version = 1

// Hello is the first frame of a connection, sent by the client and
// echoed by the server with the session it assigned.
type Hello struct {
	Version uint8
	Session string

	// Path, Search, Hash describe the location the client booted at;
	// the server runs the initial navigation against them.
	Path   string
	Search string
	Hash   string
}

// EncodeHello encodes a Hello frame payload.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	e.WriteByte(h.Version)
	e.WriteString(h.Session)
	e.WriteString(h.Path)
	e.WriteString(h.Search)
	e.WriteString(h.Hash)
	return e.Bytes()
}

// DecodeHello decodes a Hello frame payload.
func DecodeHello(payload []byte) (*Hello, error) {
	d := NewDecoder(payload)
	var h Hello

	v, err := d.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("protocol: hello version: %w", err)
	}
	if v != Version {
		return nil, fmt.Errorf("protocol: unsupported version %d", v)
	}
	h.Version = v
	if h.Session, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("protocol: hello session: %w", err)
	}
	if h.Path, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("protocol: hello path: %w", err)
	}
	if h.Search, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("protocol: hello search: %w", err)
	}
	if h.Hash, err = d.ReadString(); err != nil {
		return nil, fmt.Errorf("protocol: hello hash: %w", err)
	}
	return &h, nil
}

// ControlOp identifies a control frame operation.
type ControlOp uint8

const (
	ControlPing ControlOp = 0x01
	ControlPong ControlOp = 0x02
)

// EncodeControl encodes a control payload carrying a caller-chosen
// timestamp, echoed back in the pong.
func EncodeControl(op ControlOp, ts uint64) []byte {
	e := NewEncoder()
	e.WriteByte(byte(op))
	e.WriteUint64(ts)
	return e.Bytes()
}

// DecodeControl decodes a control payload.
func DecodeControl(payload []byte) (ControlOp, uint64, error) {
	d := NewDecoder(payload)
	op, err := d.ReadByte()
	if err != nil {
		return 0, 0, fmt.Errorf("protocol: control op: %w", err)
	}
	ts, err := d.ReadUint64()
	if err != nil {
		return 0, 0, fmt.Errorf("protocol: control ts: %w", err)
	}
	return ControlOp(op), ts, nil
}

// ErrorCode classifies an error frame.
type ErrorCode uint8

const (
	ErrCodeBadFrame ErrorCode = 0x01
	ErrCodeNoRoute  ErrorCode = 0x02
	ErrCodeInternal ErrorCode = 0x03
)

// EncodeError encodes an error payload.
func EncodeError(code ErrorCode, msg string) []byte {
	e := NewEncoder()
	e.WriteByte(byte(code))
	e.WriteString(msg)
	return e.Bytes()
}

// DecodeError decodes an error payload.
func DecodeError(payload []byte) (ErrorCode, string, error) {
	d := NewDecoder(payload)
	code, err := d.ReadByte()
	if err != nil {
		return 0, "", fmt.Errorf("protocol: error code: %w", err)
	}
	msg, err := d.ReadString()
	if err != nil {
		return 0, "", fmt.Errorf("protocol: error message: %w", err)
	}
	return ErrorCode(code), msg, nil
}
