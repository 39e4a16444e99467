package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrCompletionFailed is returned by Completers when the model could not be reached or refused
// the request.
var ErrCompletionFailed = errors.New("AI completion failed")

// MalformedResponseError is returned when the AI answer cannot be turned into a plan or ideas.
type MalformedResponseError struct {
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return "malformed AI response: " + e.Reason
}

func malformed(raw, format string, args ...interface{}) error {
	return &MalformedResponseError{Reason: fmt.Sprintf(format, args...), Raw: raw}
}

// stripFences removes the markdown code fence models like to wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// decodeItems decodes either a bare JSON array or an object holding the array under field.
func decodeItems(raw, field string, out interface{}) error {
	body := []byte(stripFences(raw))
	if len(body) == 0 {
		return errors.New("empty response")
	}
	if body[0] == '[' {
		return json.Unmarshal(body, out)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return err
	}
	items, ok := obj[field]
	if !ok {
		return errors.Errorf("missing %q field", field)
	}
	return json.Unmarshal(items, out)
}
