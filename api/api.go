package api

import _ "embed"

// OpenAPISpec — спецификация REST API, отдаётся на /swagger/openapi.json.
//
//go:embed openapi.json
var OpenAPISpec []byte
