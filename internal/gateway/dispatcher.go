package gateway

import (
	"context"
	"log/slog"

	"github.com/eleven-am/voice-bridge/internal/protocol"
)

// Dispatcher routes decoded client envelopes to the matching bridge
// operation. It holds no per-connection state; one instance serves every
// bridge.
type Dispatcher struct {
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger.With("component", "dispatcher"),
	}
}

// Dispatch invokes the bridge operation matching msg. Frames arriving before
// the bridge is active, or after it started closing, are rejected with an
// error frame; the connection itself stays open.
func (d *Dispatcher) Dispatch(ctx context.Context, b *Bridge, msg protocol.Message) {
	if b.State() != StateActive {
		b.sendError(ctx, "session not established")
		return
	}

	switch m := msg.(type) {
	case protocol.AudioData:
		b.ForwardAudio(ctx, m.Data, m.MimeType)

	case protocol.TextMessage:
		b.ForwardText(ctx, m.Text)

	case protocol.UserSpeakingStarted:
		b.AcknowledgeSpeaking(true)

	case protocol.UserSpeakingStopped:
		b.AcknowledgeSpeaking(false)

	case protocol.Ping:
		b.Pong()

	default:
		// the codec never yields server variants, so this is a programming
		// error; answer generically rather than crash the connection
		d.logger.Error("unroutable envelope", "type", msg.Type())
		b.sendError(ctx, "internal error")
	}
}
