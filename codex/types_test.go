package codex

import "testing"

func TestParseExecOutput_ThreadStartedAndAgentMessage(t *testing.T) {
	raw := `{"type":"thread.started","id":"thread-abc"}
{"type":"item.completed","item":{"type":"command_execution","command":"ls"}}
{"type":"item.completed","item":{"type":"agent_message","text":"All done."}}
`
	out := ParseExecOutput(raw)
	if out.SessionID != "thread-abc" {
		t.Errorf("SessionID = %q, want thread-abc", out.SessionID)
	}
	if out.Answer != "All done." {
		t.Errorf("Answer = %q, want %q", out.Answer, "All done.")
	}
}

func TestParseExecOutput_LastAnswerWins(t *testing.T) {
	raw := `{"type":"agent_message","text":"first"}
{"type":"agent_message","text":"second"}
`
	out := ParseExecOutput(raw)
	if out.Answer != "second" {
		t.Errorf("Answer = %q, want second", out.Answer)
	}
}

func TestParseExecOutput_FirstSessionIDWins(t *testing.T) {
	raw := `{"session_id":"sess-1"}
{"session_id":"sess-2"}
`
	out := ParseExecOutput(raw)
	if out.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", out.SessionID)
	}
}

func TestParseExecOutput_SessionEventForms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"flat session_id", `{"session_id":"s1"}`, "s1"},
		{"nested session object", `{"session":{"id":"s2"}}`, "s2"},
		{"typed session event", `{"type":"session","id":"s3"}`, "s3"},
		{"thread_id field", `{"thread_id":"s4"}`, "s4"},
		{"thread.started event", `{"type":"thread.started","id":"s5"}`, "s5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := ParseExecOutput(tt.raw); out.SessionID != tt.want {
				t.Errorf("SessionID = %q, want %q", out.SessionID, tt.want)
			}
		})
	}
}

func TestParseExecOutput_RoleFiltering(t *testing.T) {
	raw := `{"type":"message","role":"user","text":"ignore me"}
{"type":"message","role":"assistant","text":"keep me"}
`
	out := ParseExecOutput(raw)
	if out.Answer != "keep me" {
		t.Errorf("Answer = %q, want %q", out.Answer, "keep me")
	}
}

func TestParseExecOutput_SkipsMalformedLines(t *testing.T) {
	raw := `not json at all
{"type":"agent_message","text":"survived"}
{broken
`
	out := ParseExecOutput(raw)
	if out.Answer != "survived" {
		t.Errorf("Answer = %q, want survived", out.Answer)
	}
}

func TestParseExecOutput_Empty(t *testing.T) {
	out := ParseExecOutput("")
	if out.Answer != "" || out.SessionID != "" {
		t.Errorf("Expected zero output, got %+v", out)
	}
}

func TestExtractText_NestedParts(t *testing.T) {
	value := map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{"text": "part one "},
			map[string]interface{}{"text": "part two"},
		},
	}
	if got := ExtractText(value); got != "part one part two" {
		t.Errorf("ExtractText = %q", got)
	}
}
