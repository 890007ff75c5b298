// Package profile holds the stateful session controller behind a profile
// page: it loads a profile by wallet address, exposes create-or-update
// semantics, and re-synchronizes its in-memory copy after every mutation.
package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"riselink-backend/identity"
	"riselink-backend/models"
	"riselink-backend/store"
)

// Session owns a single in-memory profile slot plus a loading flag and a
// last-error slot, each observable by UI collaborators. The store is
// authoritative: after a save the slot always holds the row the store
// returned, never the session's own optimistic copy.
type Session struct {
	store store.ProfileStore
	now   func() time.Time

	mu            sync.Mutex
	walletAddress string
	profile       *models.Profile
	loading       bool
	lastErr       error
}

func NewSession(st store.ProfileStore) *Session {
	return &Session{
		store: st,
		now:   time.Now,
	}
}

// SetWalletAddress reacts to an externally-observed wallet address change.
// An empty address clears the in-memory profile without a store call; a new
// address triggers a load.
func (s *Session) SetWalletAddress(ctx context.Context, address string) error {
	s.mu.Lock()
	if address == s.walletAddress {
		s.mu.Unlock()
		return nil
	}
	s.walletAddress = address
	if address == "" {
		s.profile = nil
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err := s.Load(ctx, address)
	return err
}

// Load queries the store by lower-cased wallet address. A missing row is a
// normal empty state: the slot is cleared and no error is reported. Store
// failures propagate and land in the error slot.
func (s *Session) Load(ctx context.Context, address string) (*models.Profile, error) {
	s.begin()
	defer s.end()

	p, err := s.store.GetByWallet(ctx, strings.ToLower(address))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.setProfile(nil)
			return nil, nil
		}
		s.setErr(err)
		return nil, err
	}

	s.setProfile(p)
	return p, nil
}

// Save resolves the conflict key, stamps updated_at, and upserts the patch.
// The session's wallet address takes precedence over a patch email, so a
// user who connects a wallet after OAuth login is re-keyed to the wallet.
// With neither identity source available the store is never invoked.
func (s *Session) Save(ctx context.Context, patch models.ProfilePatch) (*models.Profile, error) {
	s.mu.Lock()
	walletAddress := s.walletAddress
	s.mu.Unlock()

	email := ""
	if patch.Email != nil {
		email = *patch.Email
	}

	id, err := identity.Resolve(walletAddress, email)
	if err != nil {
		return nil, err
	}

	s.begin()
	defer s.end()

	p, err := s.store.Upsert(ctx, patch, id, s.now())
	if err != nil {
		s.setErr(err)
		return nil, err
	}

	s.setProfile(p)
	return p, nil
}

// Refetch reloads the current wallet's profile, if any wallet is set
func (s *Session) Refetch(ctx context.Context) error {
	s.mu.Lock()
	address := s.walletAddress
	s.mu.Unlock()

	if address == "" {
		return nil
	}
	_, err := s.Load(ctx, address)
	return err
}

// Profile returns the current in-memory profile, nil when absent
func (s *Session) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Loading reports whether a load or save is in flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last store failure, cleared by any successful call
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) setProfile(p *models.Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
