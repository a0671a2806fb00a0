// Package transport delivers coaching prompts to connected chat clients.
package transport

// PromptKind labels what a prompt is asking of the user.
type PromptKind string

const (
	// KindGuidance carries feedback plus retry choices after a low score.
	KindGuidance PromptKind = "guidance"
	// KindFinalChoice is sent once the retry budget is exhausted.
	KindFinalChoice PromptKind = "final_choice"
	// KindAwaitingText tells the client to collect a freeform rewrite.
	KindAwaitingText PromptKind = "awaiting_text"
	// KindSaved confirms a persisted commitment.
	KindSaved PromptKind = "saved"
	// KindCancelled confirms an abandoned session.
	KindCancelled PromptKind = "cancelled"
)

// Choice is one inline button offered with a prompt.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Prompt is a single outbound coaching message. Delivery is
// fire-and-forget: the next user action arrives later as a fresh call
// into the HTTP surface, never as a synchronous reply.
type Prompt struct {
	Kind      PromptKind `json:"kind"`
	SessionID string     `json:"session_id,omitempty"`
	Text      string     `json:"text"`
	Score     float64    `json:"score,omitempty"`
	Choices   []Choice   `json:"choices,omitempty"`
}

// Messenger pushes prompts to a user's connected clients.
type Messenger interface {
	PresentPrompt(userID string, prompt Prompt)
}
