/*
Package server implements msgpack IPC for the place-name search engine.

The server speaks a request/response protocol over stdin/stdout so a map
application host process can drive search without linking the engine
directly. Each message carries an ID the response echoes back.

A search request:

	{"id": "req_001", "cmd": "search", "q": "sof", "l": 10}

is answered with ranked locations plus timing info:

	{"id": "req_001", "r": [{"id": "geo:727011", "n": "Sofia", ...}], "c": 1, "t": 212}

Viewport events from the map drive progressive loading:

	{"id": "vp_042", "cmd": "viewport", "lat": 42.7, "lng": 23.3, "z": 9}

Supported commands: search, fuzzy, viewport, status, init, destroy, health.
*/
package server

// Request is an incoming IPC message.
type Request struct {
	ID    string  `msgpack:"id"`
	Cmd   string  `msgpack:"cmd"`
	Query string  `msgpack:"q,omitempty"`
	Limit int     `msgpack:"l,omitempty"`
	Lat   float64 `msgpack:"lat,omitempty"`
	Lng   float64 `msgpack:"lng,omitempty"`
	Zoom  int     `msgpack:"z,omitempty"`
}

// ResultEntry is one ranked location in a search response.
type ResultEntry struct {
	ID         string  `msgpack:"id"`
	Name       string  `msgpack:"n"`
	Type       string  `msgpack:"t"`
	Country    string  `msgpack:"c,omitempty"`
	Lat        float64 `msgpack:"lat"`
	Lng        float64 `msgpack:"lng"`
	Zoom       int     `msgpack:"z"`
	Population int     `msgpack:"p,omitempty"`
	Score      float64 `msgpack:"s"`
	Field      string  `msgpack:"f"`
}

// SearchResponse answers search and fuzzy commands.
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Results   []ResultEntry `msgpack:"r"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"` // microseconds
}

// StatusResponse answers status, init, viewport and destroy commands.
type StatusResponse struct {
	ID            string `msgpack:"id"`
	Status        string `msgpack:"status"`
	Initialized   bool   `msgpack:"initialized"`
	LocationCount int    `msgpack:"locations"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
