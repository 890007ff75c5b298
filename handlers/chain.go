package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riselink-backend/chain"
)

// ChainHandler exposes the shred feed's liveness flag and latest record
type ChainHandler struct {
	listener *chain.Listener
}

func NewChainHandler(listener *chain.Listener) *ChainHandler {
	return &ChainHandler{listener: listener}
}

// GetStatus reports whether the shred subscription is live and the most
// recent pushed record
func (h *ChainHandler) GetStatus(c *gin.Context) {
	if h.listener == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "latest_shred": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":    h.listener.Connected(),
		"latest_shred": h.listener.Latest(),
	})
}
