package main

import (
	_ "github.com/eleven-am/voice-bridge/docs"
	"github.com/eleven-am/voice-bridge/internal/bootstrap"
)

// @title Voice Bridge API
// @version 1.0.0
// @description WebSocket bridge pairing browser clients with Gemini Live conversation sessions

// @host localhost:8080
// @BasePath /

func main() {
	bootstrap.Run()
}
