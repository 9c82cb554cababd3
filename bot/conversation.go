package bot

import (
	"sync"
)

// conversationState tracks which input the bot is waiting for from a user
type conversationState int

const (
	stateNone conversationState = iota
	stateCheckAmount
	stateCheckActivations
	statePromoCode
	statePromoStars
	statePromoActivations
)

// conversation accumulates the fields of a multi-step flow before the
// complete request is handed to a service
type conversation struct {
	state  conversationState
	amount int64
	code   string
	stars  int64
}

// conversationStore keeps per-user conversation state in memory. State is
// lost on restart, which only cancels an unfinished input flow.
type conversationStore struct {
	mu    sync.Mutex
	convs map[int64]*conversation
}

func newConversationStore() *conversationStore {
	return &conversationStore{convs: make(map[int64]*conversation)}
}

// get returns the current conversation for a user, if any
func (s *conversationStore) get(userID int64) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.convs[userID]
}

// set replaces the conversation for a user
func (s *conversationStore) set(userID int64, conv *conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[userID] = conv
}

// clear drops the conversation for a user
func (s *conversationStore) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, userID)
}
