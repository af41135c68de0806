/*
Package protocol defines the wire envelope exchanged with the chat server and the codec
that converts it to and from JSON text frames.

Every frame is a JSON object with three fields:

	{"messageType": "users"|"register"|"message", "dataArray": [...]|null, "data": "..."|null}

Field names and tag values are an external contract and are matched exactly.

The "message" tag is overloaded. Outbound, data is the plain text typed by the local
user. Inbound, data is itself a JSON-encoded {"from": ..., "message": ...} record relayed
by the server. Both directions share the Message variant; Message.ChatMessage decodes
the inbound form.
*/
package protocol

// MessageType is the envelope discriminant.
type MessageType string

const (
	// TypeUsers carries a full roster snapshot (inbound).
	TypeUsers MessageType = "users"

	// TypeRegister announces the local username (outbound).
	TypeRegister MessageType = "register"

	// TypeMessage carries chat text (both directions, see package doc).
	TypeMessage MessageType = "message"
)

// Envelope is one of Register, Users or Message.
type Envelope interface {
	Type() MessageType
	isEnvelope()
}

// Register is sent once when a session starts.
type Register struct {
	Username string
}

// Users is a roster snapshot, in server order.
type Users struct {
	Names []string
}

// Message carries chat data. Data is nil when the frame had no data field.
type Message struct {
	Data *string
}

// ChatMessage is one entry of the message log.
type ChatMessage struct {
	From string
	Text string
}

func (Register) Type() MessageType { return TypeRegister }
func (Users) Type() MessageType    { return TypeUsers }
func (Message) Type() MessageType  { return TypeMessage }

func (Register) isEnvelope() {}
func (Users) isEnvelope()    {}
func (Message) isEnvelope()  {}

// NewMessage builds the outbound form of a Message carrying text verbatim.
func NewMessage(text string) Message {
	return Message{Data: &text}
}

// NewRelayedMessage builds the inbound form of a Message, as relayed by the server.
func NewRelayedMessage(cm ChatMessage) Message {
	data := EncodeChatMessage(cm)
	return Message{Data: &data}
}

// ChatMessage decodes the nested record carried by an inbound Message.
// ok is false when the envelope has no data; err is set when the data is malformed.
func (m Message) ChatMessage() (cm ChatMessage, ok bool, err error) {
	if m.Data == nil {
		return ChatMessage{}, false, nil
	}
	cm, err = DecodeChatMessage(*m.Data)
	if err != nil {
		return ChatMessage{}, false, err
	}
	return cm, true, nil
}
