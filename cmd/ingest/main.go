// Command ingest loads the product catalog into the vector store. The catalog
// is a plain text file with one product block per "---" separator; each block
// is embedded whole so prices and attributes stay in the same chunk.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/config"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/llm"
	"github.com/joacoastudillo71-jpg/Chatbot-GESPRO/internal/rag"
)

var (
	productPattern  = regexp.MustCompile(`(?i)PRODUCTO:\s*([^\n]+)`)
	categoryPattern = regexp.MustCompile(`(?i)CATEGOR[IÍ]A:\s*([^\n]+)`)
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	catalogPath := flag.String("catalog", "data/catalogo.txt", "path to the catalog text file")
	flag.Parse()

	cfg := config.Load()
	if cfg.DBConnectionString == "" {
		log.Fatal("DB_CONNECTION_STRING is required")
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	raw, err := os.ReadFile(*catalogPath)
	if err != nil {
		log.Fatalf("failed to read catalog: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBConnectionString)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	store := rag.NewPGStore(pool, cfg.KnowledgeTable)
	client := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ChatModel)

	loaded := 0
	for _, block := range strings.Split(string(raw), "---") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		vector, err := client.Embed(ctx, block)
		if err != nil {
			log.Fatalf("failed to embed product block: %v", err)
		}

		name, category := parseProduct(block)
		if err := store.Insert(ctx, block, name, category, vector); err != nil {
			log.Fatalf("failed to insert product %q: %v", name, err)
		}
		loaded++
		log.Printf("loaded product: %s", name)
	}
	log.Printf("catalog ingestion complete: %d products", loaded)
}

// parseProduct pulls the product name and category markers out of a block.
// Blocks without markers fall back to the first line as the name.
func parseProduct(block string) (name, category string) {
	if m := productPattern.FindStringSubmatch(block); m != nil {
		name = strings.TrimSpace(m[1])
	}
	if m := categoryPattern.FindStringSubmatch(block); m != nil {
		category = strings.TrimSpace(m[1])
	}
	if name == "" {
		if idx := strings.IndexByte(block, '\n'); idx > 0 {
			name = strings.TrimSpace(block[:idx])
		} else {
			name = block
		}
	}
	return name, category
}
