package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEngine accepts one websocket session, answers the setup handshake,
// and hands the connection to script.
func fakeEngine(t *testing.T, setupFrames chan<- []byte, script func(ws *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != bidiPath {
			t.Errorf("expected path %s, got %s", bidiPath, r.URL.Path)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("expected key query parameter")
		}

		upgrader := websocket.Upgrader{}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if setupFrames != nil {
			setupFrames <- raw
		}
		if err := ws.WriteMessage(websocket.TextMessage, []byte(`{"setupComplete":{}}`)); err != nil {
			return
		}
		if script != nil {
			script(ws)
		}
	}))
}

func connectTest(t *testing.T, server *httptest.Server) *Session {
	t.Helper()
	s, err := Connect(context.Background(), Config{
		APIKey:   "test-key",
		Endpoint: "ws" + server.URL[4:],
	}, testLogger())
	if err != nil {
		t.Fatalf("connect error: %v", err)
	}
	return s
}

func nextEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case ev, ok := <-s.Events():
		if !ok {
			t.Fatal("events channel closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestConnect_SetupHandshake(t *testing.T) {
	setupFrames := make(chan []byte, 1)
	server := fakeEngine(t, setupFrames, func(ws *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	if !s.Active() {
		t.Error("session should be active after connect")
	}

	var setup setupMessage
	select {
	case raw := <-setupFrames:
		if err := json.Unmarshal(raw, &setup); err != nil {
			t.Fatalf("invalid setup frame: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for setup frame")
	}

	if setup.Setup.Model != Model {
		t.Errorf("expected model %s, got %s", Model, setup.Setup.Model)
	}
	mods := setup.Setup.GenerationConfig.ResponseModalities
	if len(mods) != 1 || mods[0] != "AUDIO" {
		t.Errorf("expected audio-only modality, got %v", mods)
	}
	sc := setup.Setup.GenerationConfig.SpeechConfig
	if sc == nil || sc.VoiceConfig.PrebuiltVoiceConfig.VoiceName != Voice {
		t.Errorf("expected voice %s, got %+v", Voice, sc)
	}
	si := setup.Setup.SystemInstruction
	if si == nil || len(si.Parts) != 1 || si.Parts[0].Text != systemPreamble {
		t.Errorf("expected system preamble, got %+v", si)
	}
	ric := setup.Setup.RealtimeInputConfig
	if ric == nil {
		t.Fatal("expected realtime input config")
	}
	vad := ric.AutomaticActivityDetection
	if vad.Disabled {
		t.Error("activity detection should be enabled")
	}
	if vad.StartOfSpeechSensitivity != startSensitivity || vad.EndOfSpeechSensitivity != endSensitivity {
		t.Errorf("unexpected sensitivity: %s / %s", vad.StartOfSpeechSensitivity, vad.EndOfSpeechSensitivity)
	}
	if vad.PrefixPaddingMs != prefixPaddingMs || vad.SilenceDurationMs != silenceDurationMs {
		t.Errorf("unexpected padding: %d / %d", vad.PrefixPaddingMs, vad.SilenceDurationMs)
	}
}

func TestConnect_MissingAPIKey(t *testing.T) {
	_, err := Connect(context.Background(), Config{}, testLogger())
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestConnect_UpgradeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := Connect(context.Background(), Config{
		APIKey:   "test-key",
		Endpoint: "ws" + server.URL[4:],
	}, testLogger())
	if err == nil {
		t.Fatal("expected error when upgrade is rejected")
	}
}

func TestConnect_UnexpectedSetupAck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
		ws.WriteMessage(websocket.TextMessage, []byte(`{"serverContent":{}}`))
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	_, err := Connect(context.Background(), Config{
		APIKey:   "test-key",
		Endpoint: "ws" + server.URL[4:],
	}, testLogger())
	if err == nil {
		t.Fatal("expected error for non-setup ack")
	}
}

func TestConnect_SetupAckTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()

		// consume setup, then say nothing
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Connect(ctx, Config{
		APIKey:   "test-key",
		Endpoint: "ws" + server.URL[4:],
	}, testLogger())
	if err == nil {
		t.Fatal("expected error when the setup ack never arrives")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("connect blocked %v waiting for the setup ack", elapsed)
	}
}

func TestSendAudio_Wire(t *testing.T) {
	frames := make(chan []byte, 4)
	server := fakeEngine(t, nil, func(ws *websocket.Conn) {
		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			frames <- raw
		}
	})
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	pcm := []byte{0x01, 0x02, 0x03}
	if err := s.SendAudio(pcm, "audio/pcm;rate=16000"); err != nil {
		t.Fatalf("send audio error: %v", err)
	}

	var msg realtimeInputMessage
	select {
	case raw := <-frames:
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audio frame")
	}

	audio := msg.RealtimeInput.Audio
	if audio == nil {
		t.Fatal("expected realtimeInput.audio")
	}
	if !bytes.Equal(audio.Data, pcm) {
		t.Errorf("expected data %v, got %v", pcm, audio.Data)
	}
	if audio.MimeType != "audio/pcm;rate=16000" {
		t.Errorf("expected mime audio/pcm;rate=16000, got %s", audio.MimeType)
	}
}

func TestSendText_SingleCompleteTurn(t *testing.T) {
	frames := make(chan []byte, 4)
	server := fakeEngine(t, nil, func(ws *websocket.Conn) {
		for {
			_, raw, err := ws.ReadMessage()
			if err != nil {
				return
			}
			frames <- raw
		}
	})
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	if err := s.SendText("привет"); err != nil {
		t.Fatalf("send text error: %v", err)
	}

	var msg clientContentMessage
	select {
	case raw := <-frames:
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for text frame")
	}

	cc := msg.ClientContent
	if !cc.TurnComplete {
		t.Error("text must be sent as a complete turn")
	}
	if len(cc.Turns) != 1 || cc.Turns[0].Role != "user" {
		t.Fatalf("expected one user turn, got %+v", cc.Turns)
	}
	if len(cc.Turns[0].Parts) != 1 || cc.Turns[0].Parts[0].Text != "привет" {
		t.Errorf("expected single text part, got %+v", cc.Turns[0].Parts)
	}
}

func TestEvents_FacetOrder(t *testing.T) {
	frame, err := json.Marshal(serverMessage{
		ServerContent: &serverContent{
			ModelTurn: &wireContent{Parts: []wirePart{{
				InlineData: &inlineData{MimeType: "audio/pcm;rate=24000", Data: []byte{0xAA, 0xBB}},
			}}},
			TurnComplete: true,
			Interrupted:  true,
		},
		UsageMetadata: &usageMetadata{TotalTokenCount: 321},
	})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}

	server := fakeEngine(t, nil, func(ws *websocket.Conn) {
		ws.WriteMessage(websocket.TextMessage, frame)
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	ev := nextEvent(t, s)
	if ev.Kind != EventAudio {
		t.Fatalf("expected audio first, got %s", ev.Kind)
	}
	if !bytes.Equal(ev.Data, []byte{0xAA, 0xBB}) || ev.MimeType != "audio/pcm;rate=24000" {
		t.Errorf("unexpected audio event: %+v", ev)
	}

	if ev := nextEvent(t, s); ev.Kind != EventTurnComplete {
		t.Fatalf("expected turn-complete second, got %s", ev.Kind)
	}
	if ev := nextEvent(t, s); ev.Kind != EventInterrupted {
		t.Fatalf("expected interrupted third, got %s", ev.Kind)
	}
	ev = nextEvent(t, s)
	if ev.Kind != EventUsage {
		t.Fatalf("expected usage last, got %s", ev.Kind)
	}
	if ev.TotalTokens != 321 {
		t.Errorf("expected 321 tokens, got %d", ev.TotalTokens)
	}
}

func TestEvents_DefaultAudioMime(t *testing.T) {
	frame := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"data":"qrs="}}]}}}`
	server := fakeEngine(t, nil, func(ws *websocket.Conn) {
		ws.WriteMessage(websocket.TextMessage, []byte(frame))
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	ev := nextEvent(t, s)
	if ev.Kind != EventAudio {
		t.Fatalf("expected audio event, got %s", ev.Kind)
	}
	if ev.MimeType != OutputMimeType {
		t.Errorf("expected default mime %s, got %s", OutputMimeType, ev.MimeType)
	}
}

func TestRemoteEnd_EndsSession(t *testing.T) {
	server := fakeEngine(t, nil, nil)
	defer server.Close()

	s := connectTest(t, server)
	defer s.Close()

	for open := true; open; {
		select {
		case _, open = <-s.Events():
		case <-time.After(2 * time.Second):
			t.Fatal("events channel should close when the remote ends")
		}
	}

	if s.Active() {
		t.Error("session should not be active after remote end")
	}
	if err := s.SendAudio([]byte{0x01}, "audio/pcm;rate=16000"); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("expected ErrSessionNotActive, got %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	server := fakeEngine(t, nil, func(ws *websocket.Conn) {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	s := connectTest(t, server)

	if err := s.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close should not error: %v", err)
	}

	if err := s.SendText("hello"); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("expected ErrSessionNotActive, got %v", err)
	}

	for open := true; open; {
		select {
		case _, open = <-s.Events():
		case <-time.After(2 * time.Second):
			t.Fatal("events channel should close after close")
		}
	}
}

func TestTranslate_Empty(t *testing.T) {
	if evs := translate(serverMessage{}); len(evs) != 0 {
		t.Errorf("expected no events, got %+v", evs)
	}
	if evs := translate(serverMessage{SetupComplete: &struct{}{}}); len(evs) != 0 {
		t.Errorf("expected no events for setup ack, got %+v", evs)
	}
}

func TestTranslate_TurnCompleteWithUsage(t *testing.T) {
	evs := translate(serverMessage{
		ServerContent: &serverContent{TurnComplete: true},
		UsageMetadata: &usageMetadata{TotalTokenCount: 42},
	})
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Kind != EventTurnComplete {
		t.Errorf("expected turn-complete first, got %s", evs[0].Kind)
	}
	if evs[1].Kind != EventUsage || evs[1].TotalTokens != 42 {
		t.Errorf("expected usage(42) second, got %+v", evs[1])
	}
}

func TestTranslate_MultipleAudioParts(t *testing.T) {
	evs := translate(serverMessage{
		ServerContent: &serverContent{
			ModelTurn: &wireContent{Parts: []wirePart{
				{InlineData: &inlineData{MimeType: OutputMimeType, Data: []byte{0x01}}},
				{Text: "transcript, no audio"},
				{InlineData: &inlineData{MimeType: OutputMimeType, Data: []byte{0x02}}},
			}},
		},
	})
	if len(evs) != 2 {
		t.Fatalf("expected 2 audio events, got %d", len(evs))
	}
	if evs[0].Data[0] != 0x01 || evs[1].Data[0] != 0x02 {
		t.Errorf("audio events out of order: %+v", evs)
	}
}
