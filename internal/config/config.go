package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress        string
	OpenAIKey          string
	OpenAIBaseURL      string
	ChatModel          string
	RealtimeModel      string
	RealtimeVoice      string
	DBConnectionString string
	KnowledgeTable     string
	SupabaseURL        string
	SupabaseKey        string
	CheckpointTable    string
	StockFeedPath      string
	StockPollInterval  time.Duration
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - chat, embeddings and call tokens will not work")
	}

	chatModel := os.Getenv("OPENAI_CHAT_MODEL")
	realtimeModel := os.Getenv("OPENAI_REALTIME_MODEL")
	if realtimeModel == "" {
		realtimeModel = "gpt-4o-realtime-preview"
	}
	realtimeVoice := os.Getenv("OPENAI_REALTIME_VOICE")
	if realtimeVoice == "" {
		realtimeVoice = "alloy"
	}

	dbConn := os.Getenv("DB_CONNECTION_STRING")
	if dbConn == "" {
		log.Println("Warning: DB_CONNECTION_STRING not set - catalog search will not work")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		log.Println("Warning: SUPABASE_URL/SUPABASE_SERVICE_ROLE_KEY not set - checkpoints stay in memory")
	}

	stockPath := os.Getenv("STOCK_FEED_PATH")
	stockInterval := 30 * time.Second
	if v := os.Getenv("STOCK_POLL_INTERVAL"); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			log.Printf("Warning: invalid STOCK_POLL_INTERVAL %q, using %s", v, stockInterval)
		} else {
			stockInterval = d
		}
	}

	log.Printf("config: HTTP_ADDRESS=%s", addr)
	return Config{
		HTTPAddress:        addr,
		OpenAIKey:          openAIKey,
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		ChatModel:          chatModel,
		RealtimeModel:      realtimeModel,
		RealtimeVoice:      realtimeVoice,
		DBConnectionString: dbConn,
		KnowledgeTable:     os.Getenv("KNOWLEDGE_TABLE"),
		SupabaseURL:        supabaseURL,
		SupabaseKey:        supabaseKey,
		CheckpointTable:    os.Getenv("CHECKPOINT_TABLE"),
		StockFeedPath:      stockPath,
		StockPollInterval:  stockInterval,
	}
}
