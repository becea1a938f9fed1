package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Envelope codes used by the remote API. Any code other than CodeOK is an
// application-level failure.
const (
	CodeOK           = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeNotFound     = 404
	CodeInternal     = 500
)

// Envelope is the uniform {code, message, data} wrapper of every response.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode parses an envelope from body and unmarshals its data into out.
// Parse errors return *TransportFailure; a non-200 code returns
// *ApplicationFailure carrying the server message verbatim.
func Decode(body io.Reader, out any) (string, error) {
	var env Envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return "", &TransportFailure{Op: "decode envelope", Err: err}
	}
	if env.Code != CodeOK {
		return "", &ApplicationFailure{Code: env.Code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &TransportFailure{Op: "decode data", Err: err}
		}
	}
	return env.Message, nil
}

// WriteOK writes a success envelope.
func WriteOK(w http.ResponseWriter, message string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		WriteFail(w, CodeInternal, fmt.Sprintf("encode response: %v", err))
		return
	}
	if message == "" {
		message = "success"
	}
	writeJSON(w, Envelope{Code: CodeOK, Message: message, Data: raw})
}

// WriteFail writes a failure envelope. The HTTP status stays 200; the
// envelope code carries the outcome.
func WriteFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, Envelope{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
