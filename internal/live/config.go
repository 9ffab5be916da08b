package live

// The conversation profile is fixed: one model, one voice, one system
// preamble, and one set of speech-boundary thresholds for every session.
// None of these are caller-configurable.
const (
	// Model is the native audio dialog model every session runs against.
	Model = "models/gemini-2.5-flash-preview-native-audio-dialog"

	// Voice selects the prebuilt synthetic voice for audio responses.
	Voice = "Aoede"

	// OutputMimeType is the format the engine synthesizes audio in.
	OutputMimeType = "audio/pcm;rate=24000"

	systemPreamble = "Ты дружелюбный голосовой помощник. Отвечай кратко и естественно, как в живом разговоре. Говори на русском языке."

	// Automatic speech-boundary detection runs engine-side. Low
	// sensitivity on both edges with short padding keeps turn handoff
	// snappy for conversational audio.
	startSensitivity  = "START_SENSITIVITY_LOW"
	endSensitivity    = "END_SENSITIVITY_LOW"
	prefixPaddingMs   = 20
	silenceDurationMs = 100

	defaultEndpoint = "wss://generativelanguage.googleapis.com"
	bidiPath        = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
)

// Config carries the credentials and endpoint for opening sessions.
type Config struct {
	// APIKey authenticates every session. Required.
	APIKey string

	// Endpoint overrides the production endpoint, scheme included.
	// Leave empty outside of tests and regional proxies.
	Endpoint string
}
