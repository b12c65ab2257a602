package service

import (
	"strings"

	"multichain_swap/internal/app/port"
	"multichain_swap/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Storage keys shared with the page's local storage layout.
const (
	KeyTheme           = "theme"
	KeyConnectedWallet = "connectedWallet"
	KeySelectedNetwork = "selectedNetwork"
)

// SessionStore persists the connected wallet and the selected network.
// Read failures and malformed snapshots are reported as "nothing stored".
type SessionStore struct {
	kv     port.KeyValueStore
	logger port.Logger
}

// NewSessionStore creates a SessionStore over kv.
func NewSessionStore(kv port.KeyValueStore, l port.Logger) *SessionStore {
	return &SessionStore{kv: kv, logger: l}
}

// Load returns the persisted session, if a well-formed one exists.
func (s *SessionStore) Load() (*entity.Session, bool) {
	raw, ok, err := s.kv.Get(KeyConnectedWallet)
	if err != nil {
		s.logger.Warn("Failed to read persisted session", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var session entity.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("Ignoring malformed persisted session", "error", err)
		return nil, false
	}
	if strings.TrimSpace(session.Address) == "" {
		s.logger.Warn("Ignoring persisted session without address", "type", session.Type)
		return nil, false
	}
	return &session, true
}

// Save overwrites the persisted session snapshot.
func (s *SessionStore) Save(session *entity.Session) {
	if session == nil {
		s.Clear()
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		s.logger.Error("Failed to encode session", "error", err)
		return
	}
	if err := s.kv.Set(KeyConnectedWallet, string(data)); err != nil {
		s.logger.Error("Failed to persist session", "error", err)
	}
}

// Clear removes the persisted session snapshot.
func (s *SessionStore) Clear() {
	if err := s.kv.Delete(KeyConnectedWallet); err != nil {
		s.logger.Error("Failed to remove persisted session", "error", err)
	}
}

// LoadSelectedNetwork returns the persisted network identifier, if any.
// Callers validate it against the registry.
func (s *SessionStore) LoadSelectedNetwork() (string, bool) {
	raw, ok, err := s.kv.Get(KeySelectedNetwork)
	if err != nil {
		s.logger.Warn("Failed to read persisted network", "error", err)
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// SaveSelectedNetwork persists the selected network identifier.
func (s *SessionStore) SaveSelectedNetwork(identifier string) {
	if err := s.kv.Set(KeySelectedNetwork, identifier); err != nil {
		s.logger.Error("Failed to persist selected network", "network", identifier, "error", err)
	}
}

// LoadTheme returns the persisted theme, or dark when none or an unknown value is stored.
func (s *SessionStore) LoadTheme() entity.Theme {
	raw, ok, err := s.kv.Get(KeyTheme)
	if err != nil {
		s.logger.Warn("Failed to read persisted theme", "error", err)
		return entity.ThemeDark
	}
	if theme := entity.Theme(raw); ok && theme.Valid() {
		return theme
	}
	return entity.ThemeDark
}

// SaveTheme persists theme.
func (s *SessionStore) SaveTheme(theme entity.Theme) {
	if err := s.kv.Set(KeyTheme, string(theme)); err != nil {
		s.logger.Error("Failed to persist theme", "theme", theme, "error", err)
	}
}
