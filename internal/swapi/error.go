package swapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/myrjola/holocron/internal/errors"
)

// Kind distinguishes a network level failure from a failure reported by the server.
type Kind int

const (
	// KindTransport covers failures where no usable response arrived: connection errors, timeouts, cancellation
	// and undecodable bodies.
	KindTransport Kind = iota + 1
	// KindServer is a non-2xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every Client operation.
//
// Message is human-readable and safe to show to end users. It prefers the message supplied by the server and falls
// back to a fixed text describing the operation.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Op is the fallback text of the operation, e.g. "Failed to fetch characters".
	Op    string
	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// unexpectedErrorMessage is shown for errors that did not pass through the Client.
const unexpectedErrorMessage = "An unexpected error occurred"

// Message returns the user-facing message of err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return unexpectedErrorMessage
}

// IsNotFound reports whether err is a server 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindServer && apiErr.Status == http.StatusNotFound
}

func transportError(op string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Status:  0,
		Message: op,
		Op:      op,
		cause:   cause,
	}
}

func serverError(op string, status int, body []byte) *Error {
	msg := serverMessage(body)
	if msg == "" {
		msg = op
	}
	return &Error{
		Kind:    KindServer,
		Status:  status,
		Message: msg,
		Op:      op,
		cause:   errors.New(http.StatusText(status)),
	}
}

// serverMessage extracts the message field of an error body. The field is either a string or a list of strings.
func serverMessage(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(envelope.Message, &single); err == nil {
		return strings.TrimSpace(single)
	}
	var many []string
	if err := json.Unmarshal(envelope.Message, &many); err == nil {
		return strings.TrimSpace(strings.Join(many, ", "))
	}
	return ""
}
