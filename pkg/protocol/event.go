package protocol

import "fmt"

// EventType identifies a client to server event.
type EventType uint8

const (
	// EventNavigate is a programmatic navigation request.
	EventNavigate EventType = 0x01
	// EventLink is an intercepted link activation.
	EventLink EventType = 0x02
	// EventPop reports a browser back/forward traversal that already
	// happened on the client.
	EventPop EventType = 0x03
)

func (et EventType) String() string {
	switch et {
	case EventNavigate:
		return "Navigate"
	case EventLink:
		return "Link"
	case EventPop:
		return "Pop"
	default:
		return "Unknown"
	}
}

// Event is a decoded client to server event.
type Event struct {
	Type EventType

	// Path, Search and Hash locate the navigation target. Search and
	// Hash carry no leading "?" or "#".
	Path   string
	Search string
	Hash   string

	// Replace asks for a history replace instead of a push.
	// Navigate and Link only.
	Replace bool

	// Delta is the traversal distance of a Pop event.
	Delta int
}

// EncodeEvent encodes ev into an Event frame payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteByte(byte(ev.Type))
	switch ev.Type {
	case EventPop:
		e.WriteSvarint(int64(ev.Delta))
		e.WriteString(ev.Path)
		e.WriteString(ev.Search)
		e.WriteString(ev.Hash)
	default:
		e.WriteString(ev.Path)
		e.WriteString(ev.Search)
		e.WriteString(ev.Hash)
		e.WriteBool(ev.Replace)
	}
	return e.Bytes()
}

// DecodeEvent decodes an Event frame payload.
func DecodeEvent(payload []byte) (*Event, error) {
	d := NewDecoder(payload)

	t, err := d.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("protocol: event type: %w", err)
	}
	ev := &Event{Type: EventType(t)}

	switch ev.Type {
	case EventNavigate, EventLink:
		if ev.Path, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: event path: %w", err)
		}
		if ev.Search, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: event search: %w", err)
		}
		if ev.Hash, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: event hash: %w", err)
		}
		if ev.Replace, err = d.ReadBool(); err != nil {
			return nil, fmt.Errorf("protocol: event replace: %w", err)
		}
	case EventPop:
		delta, err := d.ReadSvarint()
		if err != nil {
			return nil, fmt.Errorf("protocol: pop delta: %w", err)
		}
		ev.Delta = int(delta)
		if ev.Path, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: pop path: %w", err)
		}
		if ev.Search, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: pop search: %w", err)
		}
		if ev.Hash, err = d.ReadString(); err != nil {
			return nil, fmt.Errorf("protocol: pop hash: %w", err)
		}
	default:
		return nil, fmt.Errorf("protocol: unknown event type 0x%02x", t)
	}
	return ev, nil
}

// Target reassembles the full navigation target of the event.
func (ev *Event) Target() string {
	t := ev.Path
	if ev.Search != "" {
		t += "?" + ev.Search
	}
	if ev.Hash != "" {
		t += "#" + ev.Hash
	}
	return t
}
