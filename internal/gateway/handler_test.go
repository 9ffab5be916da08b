package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func postBroadcast(t *testing.T, baseURL, body string) (*http.Response, BroadcastResponse) {
	t.Helper()

	resp, err := http.Post(baseURL+"/broadcast", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post error: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var out BroadcastResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
	}
	return resp, out
}

func TestBroadcast_ReachesEveryClient(t *testing.T) {
	g := newGatewayHarness(t)

	ws1 := g.connect(t)
	ws2 := g.connect(t)

	resp, out := postBroadcast(t, g.server.URL, `{"message":"maintenance in 5 minutes"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.SentTo != 2 || out.TotalConnections != 2 {
		t.Errorf("expected 2/2 deliveries, got %d/%d", out.SentTo, out.TotalConnections)
	}
	if out.Message == "" {
		t.Error("expected a confirmation message")
	}

	for _, ws := range []*websocket.Conn{ws1, ws2} {
		frame := expectFrame(t, ws, "broadcast")
		if frame["message"] != "maintenance in 5 minutes" {
			t.Errorf("unexpected payload: %v", frame)
		}
	}
}

func TestBroadcast_NoConnections(t *testing.T) {
	g := newGatewayHarness(t)

	resp, out := postBroadcast(t, g.server.URL, `{"message":"anyone there"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.SentTo != 0 || out.TotalConnections != 0 {
		t.Errorf("expected 0/0 deliveries, got %d/%d", out.SentTo, out.TotalConnections)
	}
}

func TestBroadcast_MissingMessage(t *testing.T) {
	g := newGatewayHarness(t)

	resp, _ := postBroadcast(t, g.server.URL, `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestBroadcast_MalformedBody(t *testing.T) {
	g := newGatewayHarness(t)

	resp, _ := postBroadcast(t, g.server.URL, `{"message":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if apiErr.Code != "invalid_request" {
		t.Errorf("expected code invalid_request, got %s", apiErr.Code)
	}
	if apiErr.Details == nil {
		t.Error("expected bind details in the error body")
	}
}

func TestBroadcast_SkipsClosedConnections(t *testing.T) {
	deps := testDeps()
	e := echo.New()
	NewHandler(deps).RegisterRoutes(e)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	connLive, clientLive := newConnPair(t)
	connDead, _ := newConnPair(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go connLive.writePump(ctx)

	deps.Registry.Register("conn_live", NewBridge(connLive, deps))
	deps.Registry.Register("conn_dead", NewBridge(connDead, deps))
	_ = connDead.Close()

	resp, out := postBroadcast(t, server.URL, `{"message":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if out.TotalConnections != 2 {
		t.Errorf("expected a snapshot of 2 connections, got %d", out.TotalConnections)
	}
	if out.SentTo != 1 {
		t.Errorf("expected exactly one delivery, got %d", out.SentTo)
	}

	frame := expectFrame(t, clientLive, "broadcast")
	if frame["message"] != "hello" {
		t.Errorf("unexpected payload: %v", frame)
	}
}
