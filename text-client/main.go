package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/eleven-am/voice-bridge/internal/protocol"
)

// serverFrame is the loose shape of every frame the bridge sends. The
// client never sends these, so it decodes them generically.
type serverFrame struct {
	Type        string `json:"type"`
	Data        []byte `json:"data,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	Message     string `json:"message,omitempty"`
	TotalTokens int32  `json:"total_tokens,omitempty"`
}

func main() {
	bridgeURL := os.Getenv("BRIDGE_URL")
	if bridgeURL == "" {
		bridgeURL = "ws://localhost:8080/ws"
	}

	fmt.Printf("[CLIENT] Connecting to %s\n", bridgeURL)

	conn, resp, err := websocket.DefaultDialer.Dial(bridgeURL, http.Header{})
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			fmt.Printf("[CLIENT] Dial failed: status=%d, body=%s\n", resp.StatusCode, string(body))
		}
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("[CLIENT] Shutting down...")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		os.Exit(0)
	}()

	go readLoop(conn)

	fmt.Println("[CLIENT] Type a message and press enter. Ctrl+C to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}

		frame, err := protocol.Encode(protocol.TextMessage{Text: text})
		if err != nil {
			fmt.Printf("[CLIENT] Encode error: %v\n", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			fmt.Printf("[CLIENT] Write error: %v\n", err)
			return
		}
	}
}

func readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Printf("[CLIENT] Read error: %v\n", err)
			os.Exit(1)
		}

		var frame serverFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			fmt.Printf("[CLIENT] Unmarshal error: %v\n", err)
			continue
		}

		switch frame.Type {
		case "audio_data":
			fmt.Printf("[CLIENT] Audio chunk: %d bytes (%s)\n", len(frame.Data), frame.MimeType)
		case "usage_metadata":
			fmt.Printf("[CLIENT] Session tokens: %d\n", frame.TotalTokens)
		case "connection_established", "error", "broadcast":
			fmt.Printf("[CLIENT] %s: %s\n", frame.Type, frame.Message)
		default:
			fmt.Printf("[CLIENT] %s\n", frame.Type)
		}
	}
}
