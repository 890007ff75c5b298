package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riselink-backend/identity"
	"riselink-backend/links"
	"riselink-backend/models"
	"riselink-backend/store"
)

// memStore is an in-memory ProfileStore with upsert semantics keyed by the
// resolved identity's conflict value
type memStore struct {
	rows    map[string]*models.Profile
	gets    []string
	upserts []identity.Identity
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*models.Profile{}}
}

func (m *memStore) GetByWallet(_ context.Context, address string) (*models.Profile, error) {
	m.gets = append(m.gets, address)
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[address]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *memStore) Upsert(_ context.Context, patch models.ProfilePatch, id identity.Identity, now time.Time) (*models.Profile, error) {
	m.upserts = append(m.upserts, id)

	p, ok := m.rows[id.Value()]
	if !ok {
		p = &models.Profile{ID: uuid.New(), Links: []models.Link{}, CreatedAt: now}
		if id.Kind() == identity.KindWallet {
			v := id.Value()
			p.WalletAddress = &v
		} else {
			v := id.Value()
			p.Email = &v
		}
		m.rows[id.Value()] = p
	}

	if patch.Username != nil {
		p.Username = patch.Username
	}
	if patch.DisplayName != nil {
		p.DisplayName = patch.DisplayName
	}
	if patch.Bio != nil {
		p.Bio = patch.Bio
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = patch.AvatarURL
	}
	if patch.Email != nil {
		p.Email = patch.Email
	}
	if patch.Provider != nil {
		p.Provider = patch.Provider
	}
	if patch.ProviderID != nil {
		p.ProviderID = patch.ProviderID
	}
	if patch.Links != nil {
		p.Links = *patch.Links
	}
	p.UpdatedAt = now
	return p, nil
}

type fakeNFTSource struct {
	nfts []models.NFT
	err  error
}

func (f *fakeNFTSource) OwnedNFTs(context.Context, string, int) ([]models.NFT, error) {
	return f.nfts, f.err
}

func setupProfileRouter(h *ProfileHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/profiles/:walletAddress", h.GetProfile)
	r.POST("/api/v1/profiles/upsert", h.UpsertProfile)
	r.GET("/api/v1/profiles/:walletAddress/nfts", h.GetNFTs)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfile_LowerCasesWalletAddress(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/0xAbC0000000000000000000000000000000000001", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, ms.gets, 1)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", ms.gets[0])
}

func TestGetProfile_NotFound(t *testing.T) {
	r := setupProfileRouter(NewProfileHandler(newMemStore(), nil))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/0xabc0000000000000000000000000000000000001", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Profile not found")
}

func TestGetProfile_StoreFailure(t *testing.T) {
	ms := newMemStore()
	ms.getErr = errors.New("connection refused")
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/0xabc0000000000000000000000000000000000001", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Database error")
}

func TestGetProfile_NFTFetchFailureIsBestEffort(t *testing.T) {
	ms := newMemStore()
	addr := "0xabc0000000000000000000000000000000000001"
	ms.rows[addr] = &models.Profile{ID: uuid.New(), WalletAddress: &addr, Links: []models.Link{}}
	r := setupProfileRouter(NewProfileHandler(ms, &fakeNFTSource{err: errors.New("rpc down")}))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/"+addr, "")

	require.Equal(t, http.StatusOK, w.Code)
	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Empty(t, p.NFTs)
}

func TestUpsertProfile_NoIdentity(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	w := doRequest(r, http.MethodPost, "/api/v1/profiles/upsert", `{"display_name":"Alice"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wallet address or email")
	assert.Empty(t, ms.upserts)
}

func TestUpsertProfile_WalletKeyed(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	body := `{"wallet_address":"0xAbC0000000000000000000000000000000000001","display_name":"Alice","bio":"gm"}`
	w := doRequest(r, http.MethodPost, "/api/v1/profiles/upsert", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ms.upserts, 1)
	assert.Equal(t, "wallet_address", ms.upserts[0].ConflictKey())
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", ms.upserts[0].Value())

	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.NotNil(t, p.DisplayName)
	assert.Equal(t, "Alice", *p.DisplayName)
}

func TestUpsertProfile_WalletWinsOverEmail(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	body := `{"wallet_address":"0xabc0000000000000000000000000000000000001","email":"alice@example.com"}`
	w := doRequest(r, http.MethodPost, "/api/v1/profiles/upsert", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ms.upserts, 1)
	assert.Equal(t, "wallet_address", ms.upserts[0].ConflictKey())
}

func TestUpsertProfile_EmailKeyed(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	body := `{"email":"alice@example.com","display_name":"Alice","provider":"google"}`
	w := doRequest(r, http.MethodPost, "/api/v1/profiles/upsert", body)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ms.upserts, 1)
	assert.Equal(t, "email", ms.upserts[0].ConflictKey())
	assert.Equal(t, "alice@example.com", ms.upserts[0].Value())
}

func TestUpsertThenGet_LinksRoundTrip(t *testing.T) {
	ms := newMemStore()
	r := setupProfileRouter(NewProfileHandler(ms, nil))

	saved := links.Add(links.Add(nil, "Site", "example.com"), "Blog", "https://blog.example.com")
	payload, err := json.Marshal(map[string]interface{}{
		"wallet_address": "0xAbC0000000000000000000000000000000000001",
		"links":          saved,
	})
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/api/v1/profiles/upsert", string(payload))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/profiles/0xabc0000000000000000000000000000000000001", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Len(t, p.Links, 2)

	want := map[string]int{}
	for _, l := range saved {
		want[l.ID] = l.Order
	}
	got := map[string]int{}
	for _, l := range p.Links {
		got[l.ID] = l.Order
	}
	assert.Equal(t, want, got)
}

func TestGetNFTs_NoSourceConfigured(t *testing.T) {
	r := setupProfileRouter(NewProfileHandler(newMemStore(), nil))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/0xabc0000000000000000000000000000000000001/nfts", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		NFTs []models.NFT `json:"nfts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.NFTs)
}

func TestGetNFTs_InvalidAddress(t *testing.T) {
	r := setupProfileRouter(NewProfileHandler(newMemStore(), &fakeNFTSource{}))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/not-an-address/nfts", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetNFTs_ReturnsOwnedTokens(t *testing.T) {
	src := &fakeNFTSource{nfts: []models.NFT{
		{ID: "0xC-1", Name: "RISE Collection #1", TokenID: "1", Collection: "RISE Collection", ContractAddress: "0xC"},
	}}
	r := setupProfileRouter(NewProfileHandler(newMemStore(), src))

	w := doRequest(r, http.MethodGet, "/api/v1/profiles/0xabc0000000000000000000000000000000000001/nfts", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		NFTs []models.NFT `json:"nfts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.NFTs, 1)
	assert.Equal(t, "1", body.NFTs[0].TokenID)
}
