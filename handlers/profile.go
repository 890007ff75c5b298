package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"riselink-backend/identity"
	"riselink-backend/models"
	"riselink-backend/store"
)

// NFTSource reads owned tokens for the profile's showcase
type NFTSource interface {
	OwnedNFTs(ctx context.Context, owner string, limit int) ([]models.NFT, error)
}

type ProfileHandler struct {
	store store.ProfileStore
	nfts  NFTSource
}

func NewProfileHandler(st store.ProfileStore, nfts NFTSource) *ProfileHandler {
	return &ProfileHandler{
		store: st,
		nfts:  nfts,
	}
}

// GetProfile loads a profile by wallet address. A missing row is 404; the
// NFT showcase is attached best-effort and never fails the request.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	walletAddress := strings.ToLower(c.Param("walletAddress"))

	profile, err := h.store.GetByWallet(c, walletAddress)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("Database error getting profile for %s: %v", walletAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profile.NFTs = []models.NFT{}
	if h.nfts != nil {
		if owned, err := h.nfts.OwnedNFTs(c, walletAddress, 12); err == nil {
			profile.NFTs = owned
		} else {
			log.Printf("Failed to get NFTs for %s: %v", walletAddress, err)
		}
	}

	c.JSON(http.StatusOK, profile)
}

// UpsertProfile creates or updates a profile keyed by the resolved identity.
// Without a wallet address or email the save is rejected before any store
// call.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var req models.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := identity.Resolve(req.WalletAddress, req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.store.Upsert(c, req.Patch(), id, time.Now())
	if err != nil {
		log.Printf("Failed to upsert profile keyed by %s: %v", id.ConflictKey(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetNFTs returns the owned tokens rendered on the profile page
func (h *ProfileHandler) GetNFTs(c *gin.Context) {
	walletAddress := c.Param("walletAddress")
	if !common.IsHexAddress(walletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	if h.nfts == nil {
		c.JSON(http.StatusOK, gin.H{"nfts": []models.NFT{}})
		return
	}

	nfts, err := h.nfts.OwnedNFTs(c, walletAddress, limit)
	if err != nil {
		log.Printf("Failed to get NFTs for %s: %v", walletAddress, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch NFTs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nfts": nfts})
}
