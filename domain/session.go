package domain

// JudgeDecision is the structured verdict extracted from the model's raw
// output. Ephemeral: consumed by the walker, not retained in session state.
type JudgeDecision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// SessionState is the mutable state of one round. A fresh instance is
// built for every round; nothing carries over between replays.
type SessionState struct {
	Graph         *Graph
	CurrentNodeID string
	// Conversation holds assistant and user turns only. System messages are
	// injected at judge time so stale per-node instructions never linger in
	// the history given to small-context models.
	Conversation   []ChatMessage
	StepsCompleted int
}

// NewSessionState creates round state positioned at the graph's start node.
func NewSessionState(g *Graph) *SessionState {
	return &SessionState{
		Graph:         g,
		CurrentNodeID: g.StartID,
	}
}

// CurrentNode returns the node the session is positioned at.
func (s *SessionState) CurrentNode() (Node, bool) {
	return s.Graph.Get(s.CurrentNodeID)
}

// Outcome reports how a round ended: either the player quit mid-game or
// reached a terminal node.
type Outcome struct {
	Quit           bool
	Success        bool
	StepsCompleted int
	TotalSteps     int
	TerminalNodeID string
}
