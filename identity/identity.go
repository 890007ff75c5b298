// Package identity decides which field keys a profile persistence operation.
// A connected wallet always wins over an OAuth-derived email, so a user who
// connects a wallet after logging in with OAuth is re-keyed to the wallet.
package identity

import (
	"errors"
	"strings"
)

// ErrNoIdentity is returned when neither a wallet address nor an email is
// available; the save must not be attempted.
var ErrNoIdentity = errors.New("either wallet address or email is required")

// Kind tags the identity variant
type Kind int

const (
	KindWallet Kind = iota
	KindEmail
)

// Identity is the resolved conflict key for an upsert
type Identity struct {
	kind  Kind
	value string
}

// Resolve normalizes a wallet address and/or email into a conflict key.
// Wallet addresses are lower-cased before any store operation.
func Resolve(walletAddress, email string) (Identity, error) {
	if walletAddress != "" {
		return Identity{kind: KindWallet, value: strings.ToLower(walletAddress)}, nil
	}
	if email != "" {
		return Identity{kind: KindEmail, value: email}, nil
	}
	return Identity{}, ErrNoIdentity
}

// Kind reports the identity variant
func (id Identity) Kind() Kind {
	return id.kind
}

// Value returns the normalized key value
func (id Identity) Value() string {
	return id.value
}

// ConflictKey returns the profiles column used as the upsert conflict target
func (id Identity) ConflictKey() string {
	if id.kind == KindWallet {
		return "wallet_address"
	}
	return "email"
}
