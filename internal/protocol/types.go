package protocol

type Type string

const (
	TypeAudioData           Type = "audio_data"
	TypeTextMessage         Type = "text_message"
	TypeUserSpeakingStarted Type = "user_speaking_started"
	TypeUserSpeakingStopped Type = "user_speaking_stopped"
	TypePing                Type = "ping"

	TypeConnectionEstablished         Type = "connection_established"
	TypeAIStoppedSpeaking             Type = "ai_stopped_speaking"
	TypeGenerationInterrupted         Type = "generation_interrupted"
	TypeUsageMetadata                 Type = "usage_metadata"
	TypeUserSpeakingAcknowledged      Type = "user_speaking_acknowledged"
	TypeUserSpeakingEndedAcknowledged Type = "user_speaking_ended_acknowledged"
	TypePong                          Type = "pong"
	TypeError                         Type = "error"
	TypeBroadcast                     Type = "broadcast"
)

// DefaultInputMimeType is assumed for audio_data frames that omit mime_type.
const DefaultInputMimeType = "audio/pcm;rate=16000"

// Message is one envelope on the client wire. Exactly one variant per frame,
// discriminated by the "type" field.
type Message interface {
	Type() Type
}

type AudioData struct {
	Data     []byte
	MimeType string
}

type TextMessage struct {
	Text string
}

type UserSpeakingStarted struct{}

type UserSpeakingStopped struct{}

type Ping struct{}

type ConnectionEstablished struct {
	Message string
}

type AIStoppedSpeaking struct{}

type GenerationInterrupted struct{}

type UsageMetadata struct {
	TotalTokens int32
}

type UserSpeakingAcknowledged struct{}

type UserSpeakingEndedAcknowledged struct{}

type Pong struct{}

type ErrorMessage struct {
	Message string
}

// Broadcast carries an operator announcement fanned out to every live
// connection.
type Broadcast struct {
	Message string
}

func (AudioData) Type() Type                     { return TypeAudioData }
func (TextMessage) Type() Type                   { return TypeTextMessage }
func (UserSpeakingStarted) Type() Type           { return TypeUserSpeakingStarted }
func (UserSpeakingStopped) Type() Type           { return TypeUserSpeakingStopped }
func (Ping) Type() Type                          { return TypePing }
func (ConnectionEstablished) Type() Type         { return TypeConnectionEstablished }
func (AIStoppedSpeaking) Type() Type             { return TypeAIStoppedSpeaking }
func (GenerationInterrupted) Type() Type         { return TypeGenerationInterrupted }
func (UsageMetadata) Type() Type                 { return TypeUsageMetadata }
func (UserSpeakingAcknowledged) Type() Type      { return TypeUserSpeakingAcknowledged }
func (UserSpeakingEndedAcknowledged) Type() Type { return TypeUserSpeakingEndedAcknowledged }
func (Pong) Type() Type                          { return TypePong }
func (ErrorMessage) Type() Type                  { return TypeError }
func (Broadcast) Type() Type                     { return TypeBroadcast }
