package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/avvvet/round-services/internal/gamesvc/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNameRequired = errors.New("user name is required")
	ErrUserMismatch = errors.New("name does not match the resumed user")
)

// Store keeps the logged in users of this process, keyed by socket id. Several
// sockets may share one user after a reconnect.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	starting decimal.Decimal
	sockets  map[string]*models.User
	users    map[int64]*models.User
}

func NewStore(starting decimal.Decimal) *Store {
	return &Store{
		starting: starting,
		sockets:  make(map[string]*models.User),
		users:    make(map[int64]*models.User),
	}
}

// Login binds socketId to a user. A known UserId resumes that user with its
// balance when the name matches, anything else creates a new user with the
// starting balance.
func (s *Store) Login(socketId string, info models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.sockets[socketId]; ok {
		return u, nil
	}
	if u, ok := s.users[info.UserId]; ok && info.UserId != 0 {
		if strings.TrimSpace(info.Name) != u.Name {
			log.Warnf("Error [Store.Login] socket %s tried to resume user %d with another name", socketId, u.UserId)
			return nil, ErrUserMismatch
		}
		s.sockets[socketId] = u
		log.Infof("user %d resumed on socket %s", u.UserId, socketId)
		return u, nil
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.nextID++
	u := &models.User{
		UserId:    s.nextID,
		Name:      name,
		Avatar:    info.Avatar,
		Balance:   s.starting,
		Status:    "ACTIVE",
		CreatedAt: time.Now(),
	}
	s.users[u.UserId] = u
	s.sockets[socketId] = u

	log.Infof("user %d (%s) logged in on socket %s", u.UserId, u.Name, socketId)
	return u, nil
}

// CurrentUser returns the user bound to socketId, if any.
func (s *Store) CurrentUser(socketId string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.sockets[socketId]
	return u, ok
}

// Logout unbinds socketId. The user is dropped once no socket refers to it.
func (s *Store) Logout(socketId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.sockets[socketId]
	if !ok {
		return false
	}
	delete(s.sockets, socketId)

	for _, other := range s.sockets {
		if other.UserId == u.UserId {
			return true
		}
	}
	delete(s.users, u.UserId)
	log.Infof("user %d logged out", u.UserId)
	return true
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
