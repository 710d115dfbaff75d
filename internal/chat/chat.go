package chat

import (
	"context"
	"log/slog"
	"strings"

	"playmate/internal/logging"
	"playmate/internal/recommend"
	"playmate/internal/services"
)

// Roles used in a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryWindow is the number of trailing messages sent with each turn.
const HistoryWindow = 20

// Greeting opens every new conversation.
const Greeting = "안녕하세요! 저는 플레이메이트 🎮\n취향을 알려주고, 원하는 느낌을 말해줘요. (예: '스위치로 30~60분씩 협동 가능한 게임')"

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered message history.
type Conversation []Message

// NewConversation returns a conversation holding only the greeting.
func NewConversation() Conversation {
	return Conversation{{Role: RoleAssistant, Content: Greeting}}
}

// Transcript renders the last HistoryWindow messages as "ROLE: content" lines.
func (c Conversation) Transcript() string {
	start := 0
	if len(c) > HistoryWindow {
		start = len(c) - HistoryWindow
	}
	lines := make([]string, 0, len(c)-start)
	for _, m := range c[start:] {
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = RoleUser
		}
		lines = append(lines, strings.ToUpper(role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// Session answers chat turns for one profile.
type Session struct {
	llm     recommend.TextGenerator
	profile string
	logger  *slog.Logger
}

// NewSession constructs a Session. profileText is the compiled profile block.
func NewSession(llm recommend.TextGenerator, profileText string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{llm: llm, profile: profileText, logger: logging.NewComponentLogger(logger, "chat")}
}

// Reply appends the user text, asks for an answer and returns the extended
// conversation. The input conversation is not modified.
func (s *Session) Reply(ctx context.Context, conv Conversation, userText string) (Conversation, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return conv, services.Wrap(services.ErrValidation, "chat", "reply", "message must not be empty", nil)
	}
	next := make(Conversation, 0, len(conv)+2)
	next = append(next, conv...)
	next = append(next, Message{Role: RoleUser, Content: userText})

	answer, err := s.llm.Complete(ctx, recommend.AdvisorInstructions(s.profile), next.Transcript())
	if err != nil {
		return conv, &recommend.UpstreamError{Op: "chat", Err: err}
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return conv, &recommend.SchemaError{Stage: "chat", Reason: "empty reply"}
	}
	s.logger.Debug("chat turn complete", logging.Args(logging.Int("messages", len(next)+1))...)
	return append(next, Message{Role: RoleAssistant, Content: answer}), nil
}
