package wire

// UpdateEvent is the Socket.IO "update" event envelope.
//
// The server emits these to keep connected clients in sync. Body is a
// discriminated JSON object with a `t` field.
type UpdateEvent struct {
	// ID is the unique update id.
	ID string `json:"id"`
	// Seq is the user-scoped update sequence number.
	Seq int64 `json:"seq"`
	// Body is the typed update payload.
	Body any `json:"body"`
	// CreatedAt is a wall-clock timestamp in milliseconds since epoch.
	CreatedAt int64 `json:"created_at"`
}

// MessagePush is the push event for a newly received direct message.
type MessagePush struct {
	// FromUserID is the sender's user id (the unread-count key).
	FromUserID string `json:"from_user_id"`
	// ConversationID is the conversation the message belongs to.
	ConversationID string `json:"conversation_id"`
	// Delta is the number of new messages; servers may omit it (defaults to 1).
	Delta int `json:"delta,omitempty"`
}

// PresencePush is the push event for a peer going online or offline.
type PresencePush struct {
	// UserID is the peer's user id.
	UserID string `json:"user_id"`
	// Online reports the peer's new connectivity state.
	Online bool `json:"online"`
}

// UnreadSnapshot is the authoritative unread-count mapping returned by REST.
type UnreadSnapshot struct {
	// Counts maps peer user id to a non-negative unread message count.
	Counts map[string]int `json:"counts"`
}

// DuelRound announces a typing-duel round to the participants.
type DuelRound struct {
	// RoundID is the unique round id.
	RoundID string `json:"round_id"`
	// SampleText is the reference text both players type.
	SampleText string `json:"sample_text"`
	// StartedAt is the round start time in milliseconds since epoch.
	StartedAt int64 `json:"started_at"`
}

// DuelResult is a player's scored submission for a round.
type DuelResult struct {
	// RoundID is the round the submission belongs to.
	RoundID string `json:"round_id"`
	// Distance is the raw edit distance between sample and typed text.
	Distance int `json:"distance"`
	// Accuracy is the normalized similarity score in [0, 1].
	Accuracy float64 `json:"accuracy"`
	// ElapsedMS is the typing time in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Beacon is a single redacted telemetry event.
type Beacon struct {
	// ID is the client-generated beacon id.
	ID string `json:"id"`
	// Kind is the event kind (e.g. "nearby.radius_change").
	Kind string `json:"kind"`
	// At is the event time in milliseconds since epoch.
	At int64 `json:"at"`
	// Fields carries redacted key/value context.
	Fields map[string]string `json:"fields,omitempty"`
}
