package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is a single message in a conversation record.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationRecord is one line of the dataset file.
// Its JSON form is {"messages":[{"role":...,"content":...},...]}.
type ConversationRecord struct {
	Messages []Turn `json:"messages"`
}

// Len returns the number of turns.
func (r *ConversationRecord) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Messages)
}
