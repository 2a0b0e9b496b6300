package codex

import (
	"encoding/json"
	"strings"
)

// The `codex exec --json` stream is one JSON object per line. Event shapes
// vary across codex versions, so parsing is tolerant: unknown lines are
// skipped, and the last agent message seen wins.

// ExecOutput is the distilled result of one --json stream
type ExecOutput struct {
	Answer    string // last agent message text, "" if none
	SessionID string // thread/session id, "" if none reported
}

// ExtractText pulls the text out of a decoded event value. Codex nests
// message content under varying keys ("text", "content", "value",
// "output_text") and sometimes as a list of parts.
func ExtractText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		var b strings.Builder
		for _, item := range v {
			b.WriteString(ExtractText(item))
		}
		return b.String()
	case map[string]interface{}:
		for _, key := range []string{"text", "content", "value", "output_text"} {
			if inner, ok := v[key]; ok {
				return ExtractText(inner)
			}
		}
	}
	return ""
}

// sessionIDFrom extracts a session/thread id from one event, "" if absent
func sessionIDFrom(payload map[string]interface{}) string {
	if id, ok := payload["session_id"].(string); ok && id != "" {
		return id
	}
	if session, ok := payload["session"].(map[string]interface{}); ok {
		if id, ok := session["id"].(string); ok && id != "" {
			return id
		}
	}
	if payload["type"] == "session" {
		if id, ok := payload["id"].(string); ok && id != "" {
			return id
		}
	}
	if id, ok := payload["thread_id"].(string); ok && id != "" {
		return id
	}
	if payload["type"] == "thread.started" {
		if id, ok := payload["id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// answerFrom extracts an agent message candidate from one event, "" if the
// event carries none
func answerFrom(payload map[string]interface{}) string {
	payloadType, _ := payload["type"].(string)

	switch payloadType {
	case "message", "assistant_message", "final_message", "agent_message":
		role, hasRole := payload["role"].(string)
		if !hasRole || role == "assistant" {
			return ExtractText(payload)
		}
		return ""
	case "item.completed":
		item, ok := payload["item"].(map[string]interface{})
		if !ok {
			return ""
		}
		switch item["type"] {
		case "agent_message", "assistant_message", "message", "final_message":
			return ExtractText(item)
		}
		return ""
	}

	if msg, ok := payload["message"]; ok {
		return ExtractText(msg)
	}
	if response, ok := payload["response"].(map[string]interface{}); ok {
		return ExtractText(response["output_text"])
	}
	return ""
}

// ParseExecOutput scans the raw --json stream and returns the final agent
// message and the reported session id
func ParseExecOutput(raw string) ExecOutput {
	var out ExecOutput
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			continue
		}
		if out.SessionID == "" {
			out.SessionID = sessionIDFrom(payload)
		}
		if candidate := answerFrom(payload); candidate != "" {
			out.Answer = candidate
		}
	}
	return out
}
