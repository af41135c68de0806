package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"chatlink/internal/pkg/errs"
)

const (
	fieldMessageType = "messageType"
	fieldDataArray   = "dataArray"
	fieldData        = "data"

	fieldFrom    = "from"
	fieldMessage = "message"
)

// wireEnvelope is the encoded shape. Absent payloads are written as null, never omitted.
type wireEnvelope struct {
	MessageType MessageType `json:"messageType"`
	DataArray   []string    `json:"dataArray"`
	Data        *string     `json:"data"`
}

type wireChatMessage struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// Encode converts env to its JSON text frame.
// It panics only if env is not one of the package's variants.
func Encode(env Envelope) string {
	var w wireEnvelope

	switch e := env.(type) {
	case Register:
		username := e.Username
		w = wireEnvelope{MessageType: TypeRegister, Data: &username}
	case Users:
		names := e.Names
		if names == nil {
			names = []string{}
		}
		w = wireEnvelope{MessageType: TypeUsers, DataArray: names}
	case Message:
		w = wireEnvelope{MessageType: TypeMessage, Data: e.Data}
	default:
		panic(fmt.Sprintf("protocol: cannot encode envelope of type %T", env))
	}

	return mustMarshal(w)
}

// EncodeChatMessage converts cm to the nested {"from", "message"} record.
func EncodeChatMessage(cm ChatMessage) string {
	return mustMarshal(wireChatMessage{From: cm.From, Message: cm.Text})
}

// mustMarshal encodes values made only of strings and string slices, which the encoder cannot reject.
// HTML characters are left unescaped to match the server's serializer.
func mustMarshal(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(fmt.Sprintf("protocol: marshal %T: %v", v, err))
	}

	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// Decode parses a text frame into an Envelope.
// Failures are *errs.CustomError values with a 2xxx code.
func Decode(text string) (Envelope, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return nil, errs.Wrap(errs.ErrMalformedFrame, err)
	}

	var tag string
	raw, ok := fields[fieldMessageType]
	if !ok || isNull(raw) {
		return nil, errs.NewError(errs.ErrUnknownMessageType, "")
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, errs.Wrap(errs.ErrUnknownMessageType, err, string(raw))
	}

	switch MessageType(tag) {
	case TypeUsers:
		return decodeUsers(fields)
	case TypeRegister:
		return decodeRegister(fields)
	case TypeMessage:
		return decodeMessage(fields)
	default:
		return nil, errs.NewError(errs.ErrUnknownMessageType, tag)
	}
}

func decodeUsers(fields map[string]json.RawMessage) (Envelope, error) {
	raw, ok := fields[fieldDataArray]
	if !ok || isNull(raw) {
		return nil, errs.NewError(errs.ErrInvalidPayload, TypeUsers)
	}

	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidPayload, err, TypeUsers)
	}

	names := make([]string, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, errs.Wrap(errs.ErrInvalidPayload, fmt.Errorf("null name at index %d", i), TypeUsers)
		}
		names = append(names, *item)
	}

	return Users{Names: names}, nil
}

func decodeRegister(fields map[string]json.RawMessage) (Envelope, error) {
	username, ok, err := optionalString(fields, fieldData)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidPayload, err, TypeRegister)
	}
	if !ok {
		return nil, errs.NewError(errs.ErrInvalidPayload, TypeRegister)
	}
	return Register{Username: username}, nil
}

func decodeMessage(fields map[string]json.RawMessage) (Envelope, error) {
	data, ok, err := optionalString(fields, fieldData)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidPayload, err, TypeMessage)
	}
	if !ok {
		return Message{}, nil
	}
	return Message{Data: &data}, nil
}

// DecodeChatMessage parses the nested record relayed inside an inbound Message.
// Both fields must be present strings; unknown fields are ignored.
func DecodeChatMessage(text string) (ChatMessage, error) {
	fields, err := decodeObject(text)
	if err != nil {
		return ChatMessage{}, errs.Wrap(errs.ErrMalformedChatMessage, err)
	}

	from, ok, err := optionalString(fields, fieldFrom)
	if err != nil {
		return ChatMessage{}, errs.Wrap(errs.ErrMalformedChatMessage, err)
	}
	if !ok {
		return ChatMessage{}, errs.Wrap(errs.ErrMalformedChatMessage, fmt.Errorf("missing %q", fieldFrom))
	}

	message, ok, err := optionalString(fields, fieldMessage)
	if err != nil {
		return ChatMessage{}, errs.Wrap(errs.ErrMalformedChatMessage, err)
	}
	if !ok {
		return ChatMessage{}, errs.Wrap(errs.ErrMalformedChatMessage, fmt.Errorf("missing %q", fieldMessage))
	}

	return ChatMessage{From: from, Text: message}, nil
}

// decodeObject parses text as a single JSON object keyed by exact field name.
// Trailing data and repeated top-level keys are rejected.
func decodeObject(text string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("frame is null, expected an object")
	}
	if err := rejectDuplicateKeys(text); err != nil {
		return nil, err
	}

	return fields, nil
}

// rejectDuplicateKeys walks the top-level keys of an object already known to be valid JSON.
func rejectDuplicateKeys(text string) error {
	dec := json.NewDecoder(strings.NewReader(text))
	if _, err := dec.Token(); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = struct{}{}

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
	}

	return nil
}

// optionalString reads a string field; null and absent both report ok=false.
func optionalString(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, present := fields[name]
	if !present || isNull(raw) {
		return "", false, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false, fmt.Errorf("field %q: %w", name, err)
	}
	return s, true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
