package domain

import "strings"

// Role labels a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one message of the caller-supplied conversation history. The
// engine holds no session state; the full ordered history arrives with
// every request.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Exchange is a user question paired with the assistant reply that
// immediately followed it.
type Exchange struct {
	User      string
	Assistant string
}

// Mode selects the request flavor. Interview mode additionally runs the
// knowledge extractor over the raw user answer.
type Mode string

const ModeInterview Mode = "interview"

// IsInterview treats the mode selector case-insensitively; anything other
// than "interview" disables extraction.
func (m Mode) IsInterview() bool {
	return strings.EqualFold(string(m), string(ModeInterview))
}
