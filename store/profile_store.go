package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"riselink-backend/identity"
	"riselink-backend/models"
)

// ErrNotFound signals a query that matched no profile. It is a normal empty
// state, not a transport failure, and is never surfaced as a store error.
var ErrNotFound = errors.New("profile not found")

// ProfileStore wraps the datastore's select/upsert calls for profiles
type ProfileStore interface {
	GetByWallet(ctx context.Context, address string) (*models.Profile, error)
	Upsert(ctx context.Context, patch models.ProfilePatch, id identity.Identity, now time.Time) (*models.Profile, error)
}

// PostgresStore implements ProfileStore on a pgx connection pool
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `id, wallet_address, username, display_name, bio, avatar_url, email, provider, provider_id, links, created_at, updated_at`

// GetByWallet looks up a profile by wallet address. The address is matched
// as given; callers lower-case it via identity resolution first.
func (s *PostgresStore) GetByWallet(ctx context.Context, address string) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE wallet_address = $1
	`

	profile, err := scanProfile(s.db.QueryRow(ctx, query, address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Upsert inserts or updates a profile keyed by the resolved identity's
// conflict column and returns the row as stored. Nil patch fields leave
// existing values untouched.
func (s *PostgresStore) Upsert(ctx context.Context, patch models.ProfilePatch, id identity.Identity, now time.Time) (*models.Profile, error) {
	var walletAddress, email *string
	switch id.Kind() {
	case identity.KindWallet:
		v := id.Value()
		walletAddress = &v
		email = patch.Email
	case identity.KindEmail:
		v := id.Value()
		email = &v
	}

	var linksJSON []byte
	if patch.Links != nil {
		var err error
		linksJSON, err = json.Marshal(*patch.Links)
		if err != nil {
			return nil, fmt.Errorf("failed to encode links: %w", err)
		}
	}

	// Conflict target comes from identity resolution and is one of two
	// fixed column names, never user input.
	query := `
		INSERT INTO profiles (id, wallet_address, username, display_name, bio, avatar_url, email, provider, provider_id, links, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, '[]'::jsonb), $11, $11)
		ON CONFLICT (` + id.ConflictKey() + `) DO UPDATE SET
			wallet_address = COALESCE(EXCLUDED.wallet_address, profiles.wallet_address),
			username = COALESCE(EXCLUDED.username, profiles.username),
			display_name = COALESCE(EXCLUDED.display_name, profiles.display_name),
			bio = COALESCE(EXCLUDED.bio, profiles.bio),
			avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
			email = COALESCE(EXCLUDED.email, profiles.email),
			provider = COALESCE(EXCLUDED.provider, profiles.provider),
			provider_id = COALESCE(EXCLUDED.provider_id, profiles.provider_id),
			links = CASE WHEN $10::jsonb IS NULL THEN profiles.links ELSE EXCLUDED.links END,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + profileColumns

	profile, err := scanProfile(s.db.QueryRow(ctx, query,
		uuid.New(),
		walletAddress,
		patch.Username,
		patch.DisplayName,
		patch.Bio,
		patch.AvatarURL,
		email,
		patch.Provider,
		patch.ProviderID,
		linksJSON,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var linksJSON []byte

	err := row.Scan(
		&profile.ID,
		&profile.WalletAddress,
		&profile.Username,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.Email,
		&profile.Provider,
		&profile.ProviderID,
		&linksJSON,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Links = []models.Link{}
	if len(linksJSON) > 0 {
		if err := json.Unmarshal(linksJSON, &profile.Links); err != nil {
			return nil, fmt.Errorf("failed to decode links: %w", err)
		}
	}

	return &profile, nil
}
