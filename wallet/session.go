// Package wallet tracks the connection state to the external wallet
// capability and reacts to its account and chain change notifications.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"riselink-backend/models"
)

// State is the session's connection state
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// Session is the wallet connection state machine. Addresses are recorded as
// the capability returns them; lower-casing is identity resolution's job.
type Session struct {
	provider Provider

	mu     sync.Mutex
	state  State
	wallet models.WalletState
}

func NewSession(p Provider) *Session {
	return &Session{provider: p}
}

// Connect requests accounts and the chain id from the wallet capability.
// A missing capability, a rejection, or an empty account list fails with
// ErrWalletUnavailable and leaves the session disconnected.
func (s *Session) Connect(ctx context.Context) (models.WalletState, error) {
	if s.provider == nil {
		return models.WalletState{}, ErrWalletUnavailable
	}

	s.setState(Connecting)

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		s.reset()
		return models.WalletState{}, fmt.Errorf("%w: %v", ErrWalletUnavailable, err)
	}
	if len(accounts) == 0 {
		s.reset()
		return models.WalletState{}, fmt.Errorf("%w: no accounts returned", ErrWalletUnavailable)
	}

	chainHex, err := s.provider.ChainID(ctx)
	if err != nil {
		s.reset()
		return models.WalletState{}, fmt.Errorf("failed to get chain id: %w", err)
	}
	chainID, err := parseChainID(chainHex)
	if err != nil {
		s.reset()
		return models.WalletState{}, err
	}

	s.mu.Lock()
	s.state = Connected
	s.wallet = models.WalletState{
		Address:     accounts[0],
		IsConnected: true,
		ChainID:     chainID,
	}
	wallet := s.wallet
	s.mu.Unlock()

	return wallet, nil
}

// Disconnect clears the session state
func (s *Session) Disconnect() {
	s.reset()
}

// HandleAccountsChanged reacts to the capability's accounts-changed
// notification. An empty set disconnects; otherwise only the address is
// updated.
func (s *Session) HandleAccountsChanged(accounts []string) {
	if len(accounts) == 0 {
		s.reset()
		return
	}

	s.mu.Lock()
	s.wallet.Address = accounts[0]
	s.mu.Unlock()
}

// HandleChainChanged updates the chain id, independent of address and
// connection state. A malformed chain id is ignored.
func (s *Session) HandleChainChanged(chainHex string) {
	chainID, err := parseChainID(chainHex)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.wallet.ChainID = chainID
	s.mu.Unlock()
}

// SwitchToRise asks the wallet to switch to the RISE chain. When the wallet
// reports the chain as unknown, the chain definition is registered and the
// switch retried once; any further failure is reported, not retried.
func (s *Session) SwitchToRise(ctx context.Context) error {
	if s.provider == nil {
		return ErrWalletUnavailable
	}

	err := s.provider.SwitchChain(ctx, RiseChain.ChainID)
	if err == nil {
		return nil
	}

	var pe *ProviderError
	if errors.As(err, &pe) && pe.Code == CodeChainNotAdded {
		if err := s.provider.AddChain(ctx, RiseChain); err != nil {
			return fmt.Errorf("failed to add chain: %w", err)
		}
		if err := s.provider.SwitchChain(ctx, RiseChain.ChainID); err != nil {
			return fmt.Errorf("failed to switch chain: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to switch chain: %w", err)
}

// State reports the current connection state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WalletState returns a snapshot of the session record
func (s *Session) WalletState() models.WalletState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) reset() {
	s.mu.Lock()
	s.state = Disconnected
	s.wallet = models.WalletState{}
	s.mu.Unlock()
}

func parseChainID(chainHex string) (int64, error) {
	n, err := hexutil.DecodeUint64(chainHex)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", chainHex, err)
	}
	return int64(n), nil
}
