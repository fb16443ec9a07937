package engine

import (
	"sync"

	apperrors "golang-ledger-validation-service/pkg/errors"

	"golang-ledger-validation-service/internal/models"
)

// DefaultSession is the session token used when the caller supplies none.
// It preserves single-operator behavior: one active workbook at a time.
const DefaultSession = ""

// Store maps session tokens to their active workbook. Each session's
// operations are serialized behind that session's mutex, so two requests
// on the same token never interleave mutations; distinct sessions do not
// block each other.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	mu       sync.Mutex
	workbook *models.Workbook
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*session)}
}

func (s *Store) session(token string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		sess = &session{}
		s.sessions[token] = sess
	}
	return sess
}

// Replace installs a new active workbook for the session, discarding the
// previous one.
func (s *Store) Replace(token string, workbook *models.Workbook) {
	sess := s.session(token)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.workbook = workbook
}

// With runs fn against the session's active workbook under the session
// lock. It returns no_active_workbook when nothing has been uploaded yet.
func (s *Store) With(token string, fn func(*models.Workbook) error) error {
	sess := s.session(token)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.workbook == nil {
		return apperrors.WorkbookError(apperrors.CodeNoActiveWorkbook, "")
	}
	return fn(sess.workbook)
}

// Clear drops the session's active workbook.
func (s *Store) Clear(token string) {
	sess := s.session(token)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.workbook = nil
}
