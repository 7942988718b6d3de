package oaihttp

import (
	"encoding/json"
	"fmt"
	"strings"
)

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("upstream http error: status=%d message=%s", e.StatusCode, msg)
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Message extracts error.message from an OpenAI-style error body, if present.
func (e *HTTPError) Message() string {
	if e == nil || strings.TrimSpace(e.Body) == "" {
		return ""
	}
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &env); err != nil {
		return ""
	}
	return strings.TrimSpace(env.Error.Message)
}
