package protocol

import (
	"encoding/json"
	"fmt"
)

type DecodeErrorKind string

const (
	KindInvalidJSON  DecodeErrorKind = "invalid_json"
	KindUnknownType  DecodeErrorKind = "unknown_type"
	KindMissingField DecodeErrorKind = "missing_field"
)

// DecodeError reports why a client frame was rejected. Message is safe to
// echo back to the client in an error frame.
type DecodeError struct {
	Kind    DecodeErrorKind
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

// wireMessage is the flat JSON form shared by every variant. Binary audio
// travels as base64 text in "data", never as a binary frame.
type wireMessage struct {
	Type        Type   `json:"type"`
	Data        []byte `json:"data,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Text        string `json:"text,omitempty"`
	Message     string `json:"message,omitempty"`
	TotalTokens *int32 `json:"total_tokens,omitempty"`
}

// Decode parses one client frame. Unknown JSON fields are ignored; a frame
// whose type is not a client-originated variant fails with KindUnknownType.
// Failures are always *DecodeError, never a panic.
func Decode(raw []byte) (Message, error) {
	var w wireMessage
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, &DecodeError{Kind: KindInvalidJSON, Message: "invalid JSON frame"}
	}

	switch w.Type {
	case TypeAudioData:
		if len(w.Data) == 0 {
			return nil, &DecodeError{Kind: KindMissingField, Message: "audio_data requires a data field"}
		}
		mime := w.MimeType
		if mime == "" {
			mime = DefaultInputMimeType
		}
		return AudioData{Data: w.Data, MimeType: mime}, nil

	case TypeTextMessage:
		if w.Text == "" {
			return nil, &DecodeError{Kind: KindMissingField, Message: "text_message requires a text field"}
		}
		return TextMessage{Text: w.Text}, nil

	case TypeUserSpeakingStarted:
		return UserSpeakingStarted{}, nil

	case TypeUserSpeakingStopped:
		return UserSpeakingStopped{}, nil

	case TypePing:
		return Ping{}, nil

	default:
		return nil, &DecodeError{Kind: KindUnknownType, Message: fmt.Sprintf("unknown message type: %q", string(w.Type))}
	}
}

// Encode serializes any variant; each has exactly one wire form.
func Encode(msg Message) ([]byte, error) {
	w := wireMessage{Type: msg.Type()}

	switch m := msg.(type) {
	case AudioData:
		w.Data = m.Data
		w.MimeType = m.MimeType
	case TextMessage:
		w.Text = m.Text
	case ConnectionEstablished:
		w.Message = m.Message
	case ErrorMessage:
		w.Message = m.Message
	case Broadcast:
		w.Message = m.Message
	case UsageMetadata:
		w.TotalTokens = &m.TotalTokens
	}

	return json.Marshal(w)
}
