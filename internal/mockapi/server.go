// Package mockapi is an in-memory implementation of the presensi REST API
// used for local development and end-to-end tests of the client.
package mockapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"presensi.client/internal/core/model"
)

// Check-ins after this time of day are recorded as terlambat.
const (
	lateAfterHour   = 8
	lateAfterMinute = 15
)

var (
	errEmailTaken      = errors.New("email sudah terdaftar")
	errInvalidPassword = errors.New("password minimal 6 karakter")
)

type account struct {
	model.User
	passwordHash []byte
}

// Server holds users and presensi records in memory. It is safe for
// concurrent use.
type Server struct {
	mu       sync.RWMutex
	users    map[string]*account
	byEmail  map[string]string
	presensi map[string]*model.Presensi
	order    []string

	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewServer creates an empty server signing tokens with secret.
func NewServer(secret string) *Server {
	return &Server{
		users:    make(map[string]*account),
		byEmail:  make(map[string]string),
		presensi: make(map[string]*model.Presensi),
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
		now:      time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SeedUser creates an account directly, bypassing registration rules on role.
func (s *Server) SeedUser(email, password, nama string, role model.Role) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(email, password, nama, role)
}

func (s *Server) createUserLocked(email, password, nama string, role model.Role) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.byEmail[email]; ok {
		return model.User{}, errEmailTaken
	}
	if len(password) < 6 {
		return model.User{}, errInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	now := s.now().UTC()
	acc := &account{
		User: model.User{
			ID:        uuid.NewString(),
			Email:     email,
			Nama:      nama,
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	s.users[acc.ID] = acc
	s.byEmail[email] = acc.ID
	return acc.User, nil
}

func (s *Server) findByEmail(email string) (*account, bool) {
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	return s.users[id], true
}

func (s *Server) isLate(t time.Time) bool {
	limit := time.Date(t.Year(), t.Month(), t.Day(), lateAfterHour, lateAfterMinute, 0, 0, t.Location())
	return t.After(limit)
}
