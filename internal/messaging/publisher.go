package messaging

import (
	"encoding/json"
	"fmt"
)

// Bus is the publish/subscribe surface of a broker.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Envelope is the wire form of every mirrored message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher writes envelopes to the subjects of one session.
type Publisher struct {
	bus     Bus
	session string
}

func NewPublisher(bus Bus, session string) *Publisher {
	return &Publisher{bus: bus, session: session}
}

// EventSubject is where events of kind are published.
func EventSubject(session, kind string) string {
	return fmt.Sprintf("%s.events.%s", session, kind)
}

// RemoteSubject is where peers send updates for session.
func RemoteSubject(session string) string {
	return session + ".remote"
}

// Encode wraps payload in an Envelope of type typ.
func Encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}

func (p *Publisher) Publish(kind string, payload any) error {
	data, err := Encode(kind, payload)
	if err != nil {
		return err
	}
	return p.bus.Publish(EventSubject(p.session, kind), data)
}
