package models

import (
	"time"

	"github.com/google/uuid"
)

// Auth provider constants
const (
	ProviderWallet  = "wallet"
	ProviderGoogle  = "google"
	ProviderDiscord = "discord"
)

// Profile represents a link-in-bio profile (matches profiles table)
type Profile struct {
	ID            uuid.UUID `json:"id" db:"id"`
	WalletAddress *string   `json:"wallet_address" db:"wallet_address"`
	Username      *string   `json:"username" db:"username"`
	DisplayName   *string   `json:"display_name" db:"display_name"`
	Bio           *string   `json:"bio" db:"bio"`
	AvatarURL     *string   `json:"avatar_url" db:"avatar_url"`
	Email         *string   `json:"email" db:"email"`
	Provider      *string   `json:"provider" db:"provider"`
	ProviderID    *string   `json:"provider_id" db:"provider_id"`
	Links         []Link    `json:"links" db:"links"`
	NFTs          []NFT     `json:"nfts"` // Fetched from chain, not stored in DB
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProfilePatch carries partial profile data for an upsert. Nil fields are
// left untouched on an existing row.
type ProfilePatch struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Email       *string `json:"email"`
	Provider    *string `json:"provider"`
	ProviderID  *string `json:"provider_id"`
	Links       *[]Link `json:"links"`
}

// Link is one entry in a profile's ordered link list
type Link struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Icon  *string `json:"icon,omitempty"`
	Order int     `json:"order"`
}

// NFT represents an owned token rendered on the profile page.
// Entirely externally sourced; never persisted by this system.
type NFT struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Image           string `json:"image"`
	Collection      string `json:"collection"`
	TokenID         string `json:"token_id"`
	ContractAddress string `json:"contract_address"`
}

// UpsertProfileRequest is the HTTP payload for the profile upsert endpoint.
// Identity resolution decides whether wallet_address or email keys the row.
type UpsertProfileRequest struct {
	WalletAddress string  `json:"wallet_address"`
	Email         string  `json:"email"`
	Username      *string `json:"username"`
	DisplayName   *string `json:"display_name"`
	Bio           *string `json:"bio"`
	AvatarURL     *string `json:"avatar_url"`
	Provider      *string `json:"provider"`
	ProviderID    *string `json:"provider_id"`
	Links         *[]Link `json:"links"`
}

// Patch converts the request into the partial data handed to the store
func (r UpsertProfileRequest) Patch() ProfilePatch {
	patch := ProfilePatch{
		Username:    r.Username,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
		Provider:    r.Provider,
		ProviderID:  r.ProviderID,
		Links:       r.Links,
	}
	if r.Email != "" {
		email := r.Email
		patch.Email = &email
	}
	return patch
}
