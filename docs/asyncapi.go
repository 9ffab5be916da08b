package docs

import _ "embed"

// AsyncAPISpec documents the websocket wire protocol. Served at /asyncapi.yaml.
//
//go:embed asyncapi.yaml
var AsyncAPISpec []byte
