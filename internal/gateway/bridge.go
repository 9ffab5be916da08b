package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/voice-bridge/internal/live"
	"github.com/eleven-am/voice-bridge/internal/protocol"
	"github.com/eleven-am/voice-bridge/internal/session"
	"github.com/eleven-am/voice-bridge/internal/usage"
)

// BackendSession is the conversation engine surface a bridge drives.
// *live.Session implements it; tests substitute their own.
type BackendSession interface {
	SendAudio(data []byte, mimeType string) error
	SendText(text string) error
	Events() <-chan live.Event
	Close() error
}

// SessionOpener opens the backend session for one bridge. Called exactly
// once per client connection.
type SessionOpener func(ctx context.Context) (BackendSession, error)

type State int

const (
	StateConnecting State = iota
	StateActive
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// BridgeDeps carries the collaborators shared by every bridge. Sessions,
// Usage and Metrics may be nil; record keeping then degrades to logging.
type BridgeDeps struct {
	Opener     SessionOpener
	Registry   *Registry
	Dispatcher *Dispatcher
	Sessions   *session.Store
	Usage      *usage.Store
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Bridge pairs one client connection with one backend session. Exactly two
// goroutines serve it: the connection's read pump feeding HandleFrame, and
// the backend pump draining engine events. Teardown is idempotent and may
// start from either side.
type Bridge struct {
	id   string
	conn *ClientConn
	deps BridgeDeps

	logger *slog.Logger

	mu        sync.Mutex
	state     State
	backend   BackendSession
	sessionID string
	active    bool

	startedAt time.Time
	tokens    atomic.Int64

	closeOnce sync.Once
}

func NewBridge(conn *ClientConn, deps BridgeDeps) *Bridge {
	return &Bridge{
		id:     conn.ID(),
		conn:   conn,
		deps:   deps,
		logger: deps.Logger.With("connection_id", conn.ID()),
	}
}

func (b *Bridge) ID() string {
	return b.id
}

func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Start opens the backend session and activates the bridge. On failure the
// client gets an error frame and the bridge lands terminal without ever
// registering.
func (b *Bridge) Start(ctx context.Context) error {
	b.setState(StateConnecting)
	b.startedAt = time.Now()

	backend, err := b.deps.Opener(ctx)
	if err != nil {
		b.deps.Metrics.RecordConnectFailure()
		b.send(protocol.ErrorMessage{Message: "failed to connect to the conversation engine"})
		b.shutdown(session.StatusFailed)
		return fmt.Errorf("open backend session: %w", err)
	}

	b.mu.Lock()
	b.backend = backend
	b.mu.Unlock()

	b.deps.Registry.Register(b.id, b)
	b.createRecord(ctx)
	b.send(protocol.ConnectionEstablished{Message: "connected to the conversation engine"})

	b.mu.Lock()
	b.state = StateActive
	b.active = true
	b.mu.Unlock()

	b.deps.Metrics.RecordConnected()
	go b.backendPump(backend)

	b.logger.Info("bridge active", "session_id", b.SessionID())
	return nil
}

// HandleFrame processes one raw client frame. Decode failures answer with an
// error frame and leave the connection open.
func (b *Bridge) HandleFrame(ctx context.Context, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		b.deps.Metrics.RecordDecodeError()
		b.sendError(ctx, err.Error())
		return
	}

	b.deps.Metrics.RecordFrameReceived(msg.Type())
	b.deps.Dispatcher.Dispatch(ctx, b, msg)
}

// ForwardAudio hands one audio chunk to the backend unchanged. A backend
// refusal is reported to the client without dropping the connection.
func (b *Bridge) ForwardAudio(ctx context.Context, data []byte, mimeType string) {
	backend := b.currentBackend()
	if backend == nil {
		b.sendError(ctx, "session not established")
		return
	}

	if err := backend.SendAudio(data, mimeType); err != nil {
		b.logger.Warn("audio forward failed", "error", err)
		b.sendError(ctx, "failed to forward audio")
		return
	}

	b.bumpCounter(ctx, b.deps.Sessions.IncrementAudioChunks)
}

// ForwardText submits one text turn to the backend.
func (b *Bridge) ForwardText(ctx context.Context, text string) {
	backend := b.currentBackend()
	if backend == nil {
		b.sendError(ctx, "session not established")
		return
	}

	if err := backend.SendText(text); err != nil {
		b.logger.Warn("text forward failed", "error", err)
		b.sendError(ctx, "failed to forward text")
		return
	}

	b.bumpCounter(ctx, b.deps.Sessions.IncrementTextMessages)
	b.touchRecord(ctx)
}

// AcknowledgeSpeaking answers the client's voice-activity notifications. The
// backend's own detection drives interruption; these frames only sync UI.
func (b *Bridge) AcknowledgeSpeaking(started bool) {
	if started {
		b.send(protocol.UserSpeakingAcknowledged{})
		return
	}
	b.send(protocol.UserSpeakingEndedAcknowledged{})
}

func (b *Bridge) Pong() {
	b.send(protocol.Pong{})
}

// Deliver queues one server frame for this bridge's client. Used by the
// broadcast fan-out.
func (b *Bridge) Deliver(msg protocol.Message) error {
	if err := b.conn.Send(msg); err != nil {
		return err
	}
	b.deps.Metrics.RecordFrameSent(msg.Type())
	return nil
}

func (b *Bridge) SessionID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessionID
}

// Close tears the bridge down from any state. Safe to call repeatedly and
// from any goroutine.
func (b *Bridge) Close() error {
	b.shutdown(session.StatusClosed)
	return nil
}

// backendPump drains engine events into client frames, preserving arrival
// order. When the stream ends it tears the bridge down so a dead backend
// never leaves the client half-open.
func (b *Bridge) backendPump(backend BackendSession) {
	for ev := range backend.Events() {
		b.deps.Metrics.RecordBackendEvent(ev.Kind)

		switch ev.Kind {
		case live.EventAudio:
			b.send(protocol.AudioData{Data: ev.Data, MimeType: ev.MimeType})

		case live.EventTurnComplete:
			b.send(protocol.AIStoppedSpeaking{})
			b.bumpCounter(context.Background(), b.deps.Sessions.IncrementResponses)

		case live.EventInterrupted:
			b.send(protocol.GenerationInterrupted{})
			b.bumpCounter(context.Background(), b.deps.Sessions.IncrementInterruptions)

		case live.EventUsage:
			b.tokens.Store(int64(ev.TotalTokens))
			b.send(protocol.UsageMetadata{TotalTokens: ev.TotalTokens})
		}
	}

	b.shutdown(session.StatusClosed)
}

func (b *Bridge) shutdown(status session.Status) {
	b.closeOnce.Do(func() {
		b.setState(StateClosing)

		b.mu.Lock()
		backend := b.backend
		b.backend = nil
		wasActive := b.active
		b.mu.Unlock()

		if backend != nil {
			if err := backend.Close(); err != nil {
				b.logger.Warn("backend close failed", "error", err)
			}
		}

		b.deps.Registry.Unregister(b.id)
		_ = b.conn.Close()

		if wasActive {
			b.finishRecords(status)
			b.deps.Metrics.RecordDisconnected(time.Since(b.startedAt).Seconds())
		}

		b.setState(StateClosed)
		b.logger.Info("bridge closed", "status", string(status), "total_tokens", b.tokens.Load())
	})
}

func (b *Bridge) send(msg protocol.Message) {
	if err := b.conn.Send(msg); err != nil {
		b.logger.Debug("frame not delivered", "type", msg.Type(), "error", err)
		return
	}
	b.deps.Metrics.RecordFrameSent(msg.Type())
}

func (b *Bridge) sendError(ctx context.Context, message string) {
	b.send(protocol.ErrorMessage{Message: message})
	b.bumpCounter(ctx, b.deps.Sessions.IncrementErrors)
}

func (b *Bridge) currentBackend() BackendSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backend
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// createRecord opens the Redis session record. Store failures degrade to a
// warning; the bridge works without its records.
func (b *Bridge) createRecord(ctx context.Context) {
	if b.deps.Sessions == nil {
		return
	}

	rec := &session.Session{
		ConnectionID: b.id,
		RemoteAddr:   b.conn.RemoteAddr(),
	}
	if err := b.deps.Sessions.CreateSession(ctx, rec); err != nil {
		b.logger.Warn("failed to create session record", "error", err)
		return
	}

	b.mu.Lock()
	b.sessionID = rec.ID
	b.mu.Unlock()

	b.bumpCounter(ctx, b.deps.Sessions.IncrementSessions)
}

// touchRecord refreshes the record's last-activity timestamp.
func (b *Bridge) touchRecord(ctx context.Context) {
	id := b.SessionID()
	if b.deps.Sessions == nil || id == "" {
		return
	}

	rec, err := b.deps.Sessions.GetSession(ctx, id)
	if err != nil {
		return
	}
	if err := b.deps.Sessions.UpdateSession(ctx, rec); err != nil {
		b.logger.Debug("session touch failed", "error", err)
	}
}

// finishRecords closes the Redis record and writes the usage row.
func (b *Bridge) finishRecords(status session.Status) {
	ctx := context.Background()
	tokens := b.tokens.Load()
	endedAt := time.Now()

	if id := b.SessionID(); id != "" && b.deps.Sessions != nil {
		if err := b.deps.Sessions.EndSession(ctx, id, status, tokens); err != nil {
			b.logger.Warn("failed to end session record", "error", err)
		}
		if tokens > 0 {
			b.bumpCounter(ctx, func(ctx context.Context) error {
				return b.deps.Sessions.AddTokens(ctx, tokens)
			})
		}
	}

	if b.deps.Usage != nil {
		row := &usage.Record{
			SessionID:   b.SessionID(),
			TotalTokens: tokens,
			DurationMs:  endedAt.Sub(b.startedAt).Milliseconds(),
			StartedAt:   b.startedAt,
			EndedAt:     endedAt,
		}
		if err := b.deps.Usage.Create(ctx, row); err != nil {
			b.logger.Warn("failed to write usage record", "error", err)
		}
	}
}

// bumpCounter applies one hourly-counter update, tolerating a missing store.
func (b *Bridge) bumpCounter(ctx context.Context, fn func(context.Context) error) {
	if b.deps.Sessions == nil {
		return
	}
	if err := fn(ctx); err != nil {
		b.logger.Debug("counter update failed", "error", err)
	}
}
