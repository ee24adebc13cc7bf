/*
Package server drives a headless autocomplete widget over msgpack on stdin/stdout.

A host that renders the widget itself (an editor plugin, a browser shell) sends
the user's interactions as requests and receives the widget state to draw.
Every request carries an ID; the matching response repeats it.

# Requests

	{"id": "m1", "ev": "mount", "x": 0, "y": 2, "w": 40, "h": 12}
	{"id": "k1", "ev": "key", "t": "ap"}
	{"id": "s1", "ev": "select", "t": "Apple"}
	{"id": "p1", "ev": "pointer", "x": 55, "y": 3}
	{"id": "q1", "ev": "state"}
	{"id": "u1", "ev": "unmount"}

"key" carries the whole text of the input after the keystroke. "mount" gives
the rectangle the host drew the widget in; "pointer" reports a press anywhere
in the host, and presses outside that rectangle close the dropdown.

# Responses

Each request is answered at once with the state after it was applied:

	{"id": "k1", "sid": "…", "in": "", "draft": "ap", "open": true, "sel": -1,
	 "items": [], "pending": true, "seq": 1, "t": 41}

An accepted keystroke is filtered asynchronously; when its matches arrive a
second state message is pushed with the same id:

	{"id": "k1", "in": "ap", "open": true,
	 "items": [{"b": "", "m": "Ap", "a": "ple"}, {"b": "Gr", "m": "ap", "a": "e"}],
	 "pending": false, "seq": 1}

Matches for a keystroke that has since been superseded are never pushed.
Malformed requests get an ErrorResponse and the stream continues.
*/
package server

// Request is one host interaction.
type Request struct {
	ID    string `msgpack:"id"`
	Event string `msgpack:"ev"`
	Text  string `msgpack:"t,omitempty"`
	X     int    `msgpack:"x,omitempty"`
	Y     int    `msgpack:"y,omitempty"`
	W     int    `msgpack:"w,omitempty"`
	H     int    `msgpack:"h,omitempty"`
}

// Event names accepted in Request.Event.
const (
	EventMount   = "mount"
	EventUnmount = "unmount"
	EventKey     = "key"
	EventSelect  = "select"
	EventPointer = "pointer"
	EventState   = "state"
)

// Row is one dropdown entry split around the highlighted query.
type Row struct {
	Before string `msgpack:"b"`
	Match  string `msgpack:"m"`
	After  string `msgpack:"a"`
}

// StateResponse is the widget state after a request, or after a filter resolved.
type StateResponse struct {
	ID        string `msgpack:"id"`
	Session   string `msgpack:"sid"`
	Input     string `msgpack:"in"`
	Draft     string `msgpack:"draft"`
	Open      bool   `msgpack:"open"`
	Selected  int    `msgpack:"sel"`
	Error     string `msgpack:"err,omitempty"`
	Items     []Row  `msgpack:"items"`
	Pending   bool   `msgpack:"pending"`
	Seq       uint64 `msgpack:"seq"`
	TimeTaken int64  `msgpack:"t"`
}

// ReadyResponse is sent once when the server starts.
type ReadyResponse struct {
	Status     string `msgpack:"status"`
	Session    string `msgpack:"sid"`
	Candidates int    `msgpack:"candidates"`
}

// ErrorResponse holds basic error information for a rejected request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
