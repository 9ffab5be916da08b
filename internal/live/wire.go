package live

// Wire types for the BidiGenerateContent websocket protocol. JSON casing
// follows the service contract; audio bytes travel base64-encoded inside
// inlineData.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model               string               `json:"model"`
	GenerationConfig    generationConfig     `json:"generationConfig"`
	SystemInstruction   *wireContent         `json:"systemInstruction,omitempty"`
	RealtimeInputConfig *realtimeInputConfig `json:"realtimeInputConfig,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type realtimeInputConfig struct {
	AutomaticActivityDetection activityDetection `json:"automaticActivityDetection"`
}

type activityDetection struct {
	Disabled                 bool   `json:"disabled"`
	StartOfSpeechSensitivity string `json:"startOfSpeechSensitivity,omitempty"`
	EndOfSpeechSensitivity   string `json:"endOfSpeechSensitivity,omitempty"`
	PrefixPaddingMs          int    `json:"prefixPaddingMs,omitempty"`
	SilenceDurationMs        int    `json:"silenceDurationMs,omitempty"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	Audio *inlineData `json:"audio,omitempty"`
}

type clientContentMessage struct {
	ClientContent clientContent `json:"clientContent"`
}

type clientContent struct {
	Turns        []wireContent `json:"turns"`
	TurnComplete bool          `json:"turnComplete"`
}

// serverMessage is the union of frames the service sends. setupComplete
// arrives exactly once after setup; usageMetadata may ride along with
// serverContent on the same frame.
type serverMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type serverContent struct {
	ModelTurn    *wireContent `json:"modelTurn,omitempty"`
	TurnComplete bool         `json:"turnComplete,omitempty"`
	Interrupted  bool         `json:"interrupted,omitempty"`
}

type usageMetadata struct {
	TotalTokenCount int32 `json:"totalTokenCount"`
}

func newSetupMessage() setupMessage {
	return setupMessage{Setup: setupPayload{
		Model: Model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: Voice},
				},
			},
		},
		SystemInstruction: &wireContent{
			Parts: []wirePart{{Text: systemPreamble}},
		},
		RealtimeInputConfig: &realtimeInputConfig{
			AutomaticActivityDetection: activityDetection{
				Disabled:                 false,
				StartOfSpeechSensitivity: startSensitivity,
				EndOfSpeechSensitivity:   endSensitivity,
				PrefixPaddingMs:          prefixPaddingMs,
				SilenceDurationMs:        silenceDurationMs,
			},
		},
	}}
}
