package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait   = 10 * time.Second
	eventBuffer = 64
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateStreaming
	stateEnded
)

// Session owns one live conversation against the engine. Backend events
// are delivered on the channel returned by Events; the channel is closed
// when the remote side ends or Close is called. A session is never
// restarted; callers open a fresh one instead.
type Session struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu    sync.Mutex
	state sessionState

	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// Connect dials the engine, performs the setup handshake, and starts the
// background read loop. The returned session is already streaming; on any
// error nothing is left behind.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Session, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("connect live session: missing API key")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("connect live session: parse endpoint: %w", err)
	}
	u.Path = bidiPath
	u.RawQuery = url.Values{"key": {cfg.APIKey}}.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), http.Header{})
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial live session: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial live session: %w", err)
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(newSetupMessage()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send setup: %w", err)
	}

	// The service acknowledges setup before any content flows. The wait is
	// bounded by writeWait or the caller's deadline, whichever is earlier.
	ackDeadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(ackDeadline) {
		ackDeadline = d
	}
	conn.SetReadDeadline(ackDeadline)
	var ack serverMessage
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read setup ack: %w", err)
	}
	if ack.SetupComplete == nil {
		conn.Close()
		return nil, fmt.Errorf("read setup ack: unexpected frame")
	}
	// Streaming reads carry no deadline; backend silence is not an error.
	conn.SetReadDeadline(time.Time{})

	s := &Session{
		conn:   conn,
		logger: logger,
		state:  stateStreaming,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

// SendAudio forwards one chunk of caller audio with its declared MIME
// type. The session does not transcode.
func (s *Session) SendAudio(data []byte, mimeType string) error {
	return s.writeJSON(realtimeInputMessage{
		RealtimeInput: realtimeInput{
			Audio: &inlineData{MimeType: mimeType, Data: data},
		},
	})
}

// SendText submits text as a single complete user turn.
func (s *Session) SendText(text string) error {
	return s.writeJSON(clientContentMessage{
		ClientContent: clientContent{
			Turns: []wireContent{{
				Role:  "user",
				Parts: []wirePart{{Text: text}},
			}},
			TurnComplete: true,
		},
	})
}

// Events returns the backend event stream. The channel is closed once the
// session has ended; events already buffered remain readable.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Active reports whether the session is still streaming.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateStreaming
}

// Close tears down the remote session. Idempotent; safe to call
// concurrently with the read loop.
func (s *Session) Close() error {
	s.end()
	return nil
}

func (s *Session) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateStreaming {
		return ErrSessionNotActive
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write live session: %w", err)
	}
	return nil
}

// readLoop consumes server frames until the session ends, translating each
// into outward events. It is the only writer of the events channel and
// closes it on exit.
func (s *Session) readLoop() {
	defer func() {
		s.end()
		close(s.events)
	}()

	for {
		var msg serverMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			select {
			case <-s.done:
			default:
				s.logger.Warn("live session read failed", "error", err)
			}
			return
		}

		for _, ev := range translate(msg) {
			select {
			case s.events <- ev:
			case <-s.done:
				return
			}
		}
	}
}

// end transitions the session to its terminal state exactly once.
func (s *Session) end() {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		s.state = stateEnded
		s.mu.Unlock()
		close(s.done)
		s.conn.Close()
	})
}

// translate expands one server frame into outward events. Facets are
// independent flags on the same frame and yield events in a fixed order:
// audio, turn-complete, interrupted, usage.
func translate(msg serverMessage) []Event {
	var out []Event
	if sc := msg.ServerContent; sc != nil {
		if sc.ModelTurn != nil {
			for _, p := range sc.ModelTurn.Parts {
				if p.InlineData != nil && len(p.InlineData.Data) > 0 {
					out = append(out, Event{
						Kind:     EventAudio,
						Data:     p.InlineData.Data,
						MimeType: audioMime(p.InlineData.MimeType),
					})
				}
			}
		}
		if sc.TurnComplete {
			out = append(out, Event{Kind: EventTurnComplete})
		}
		if sc.Interrupted {
			out = append(out, Event{Kind: EventInterrupted})
		}
	}
	if msg.UsageMetadata != nil {
		out = append(out, Event{Kind: EventUsage, TotalTokens: msg.UsageMetadata.TotalTokenCount})
	}
	return out
}

func audioMime(reported string) string {
	if reported != "" {
		return reported
	}
	return OutputMimeType
}
