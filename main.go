package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"riselink-backend/chain"
	"riselink-backend/config"
	"riselink-backend/contracts"
	"riselink-backend/handlers"
	"riselink-backend/store"
)

func connectToDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Successfully connected to the database!")
	return pool, nil
}

func connectToChain(cfg *config.Config) (*ethclient.Client, error) {
	client, err := ethclient.Dial(cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RISE RPC: %w", err)
	}

	log.Println("Successfully connected to RISE chain node!")
	return client, nil
}

// startShredListener subscribes to the low-latency shred feed. The feed is
// a liveness signal only, so a failed dial degrades to "disconnected"
// rather than stopping the server.
func startShredListener(cfg *config.Config) *chain.Listener {
	ws, err := chain.DialWS(context.Background(), cfg.Chain.WSURL)
	if err != nil {
		log.Printf("Warning: shred feed unavailable: %v", err)
		return nil
	}

	listener := chain.NewListener(ws)
	if err := listener.Start(context.Background()); err != nil {
		log.Printf("Warning: failed to start shred listener: %v", err)
		return nil
	}

	log.Println("Shred listener started")
	return listener
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v\n", err)
	}

	// Database connection
	pool, err := connectToDatabase(cfg)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	// RISE chain connection
	ethClient, err := connectToChain(cfg)
	if err != nil {
		log.Fatalf("Unable to connect to RISE chain node: %v\n", err)
	}
	defer ethClient.Close()

	// NFT showcase collection (optional)
	var nftSource handlers.NFTSource
	if cfg.Chain.CollectionAddress != "" {
		collection, err := contracts.NewCollection(ethClient, cfg.Chain.CollectionAddress, "RISE Collection")
		if err != nil {
			log.Fatalf("Invalid NFT collection address: %v\n", err)
		}
		nftSource = collection
	}

	// Shred feed listener (optional)
	listener := startShredListener(cfg)
	if listener != nil {
		defer listener.Stop()
	}

	// Create handlers
	profileStore := store.NewPostgresStore(pool)
	profileHandler := handlers.NewProfileHandler(profileStore, nftSource)
	oauthHandler := handlers.NewOAuthHandler(cfg)
	chainHandler := handlers.NewChainHandler(listener)

	// Setup Gin
	router := gin.Default()

	// CORS configuration - the OAuth relay is open to all origins
	corsConfig := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// OAuth relay routes
	router.POST("/api/oauth/discord", oauthHandler.DiscordCallback)
	router.POST("/api/oauth/google", oauthHandler.GoogleCallback)

	// API routes
	api := router.Group("/api/v1")
	{
		// Profile routes
		api.GET("/profiles/:walletAddress", profileHandler.GetProfile)
		api.POST("/profiles/upsert", profileHandler.UpsertProfile)
		api.GET("/profiles/:walletAddress/nfts", profileHandler.GetNFTs)

		// Chain feed status
		api.GET("/chain/status", chainHandler.GetStatus)

		// Health check route
		api.GET("/test-db", func(c *gin.Context) {
			if err := pool.Ping(context.Background()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed: " + err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "Database connection OK"})
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	log.Printf("Server starting on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}
