package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	pkgerrors "ideavine-backend/pkg/errors"
)

// Models are asked to fence their JSON in triple backticks, but
// occasionally reply with a bare document.
var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// ExtractJSON pulls the JSON document out of a model reply. A fenced
// block wins when present; otherwise the whole reply must parse. An
// invalid document inside a fence is an upstream error, not a reason
// to try the rest of the text.
func ExtractJSON(reply string) (json.RawMessage, error) {
	candidate := strings.TrimSpace(reply)
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		candidate = m[1]
	}
	if !json.Valid([]byte(candidate)) {
		return nil, pkgerrors.NewUpstreamError("openai", errors.New("reply is not valid JSON")).
			WithDetail("reply_prefix", prefix(reply, 120))
	}
	return json.RawMessage(candidate), nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
