package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/ai"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/api"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/pipeline"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/stt"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/tts"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration; a missing provider key is fatal here, not on the
	// first request.
	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	sttProvider, err := stt.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create STT provider: %v", err)
	}
	pipe := pipeline.New(cfg, sttProvider, ai.NewOpenAIReasoner(cfg), tts.NewOpenAIProvider(cfg))

	r := gin.Default()

	// Add CORS middleware for the core web app and local tools
	r.Use(corsMiddleware())

	// Register routes
	api.RegisterRoutes(r, api.NewHandler(cfg, pipe))

	log.Printf("Voice assistant service booting with LLM=%s, STT=%s, TTS=%s (voice=%s, format=%s)",
		cfg.LLMModel, cfg.STTModel, cfg.TTSModel, cfg.TTSVoice, cfg.TTSFormat)
	log.Printf("Voice assistant backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware adds CORS headers for the web and mobile clients
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
