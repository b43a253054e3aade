package bot

import "sync"

type sessionState int

const (
	stateIdle sessionState = iota
	stateAwaitingResponse
	stateAwaitingPayoutID
	stateAwaitingWithdrawAmount
)

type session struct {
	State  sessionState
	TaskID int64
}

// SessionStore keeps per-user conversation state in memory. State only
// shapes the next free-text message; losing it on restart is harmless.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]session
}

// NewSessionStore constructs an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]session)}
}

// AwaitResponse marks the user as composing a response for the task.
func (s *SessionStore) AwaitResponse(userID, taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{State: stateAwaitingResponse, TaskID: taskID}
}

// AwaitPayoutID marks the user as entering a payout destination.
func (s *SessionStore) AwaitPayoutID(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{State: stateAwaitingPayoutID}
}

// AwaitWithdrawAmount marks the user as entering a withdrawal amount.
func (s *SessionStore) AwaitWithdrawAmount(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{State: stateAwaitingWithdrawAmount}
}

// Clear resets the user to idle.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Get returns the current state for the user.
func (s *SessionStore) Get(userID int64) session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}
