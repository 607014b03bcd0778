package rag

import "context"

// Document is one retrieved catalog chunk.
type Document struct {
	ID      string
	Content string
	// Metadata is decoded once at the store boundary; downstream code only
	// sees the typed fields.
	Metadata Metadata
	// Similarity is the inner-product score, higher is closer.
	Similarity float64
}

// Metadata carries the structured fields stored alongside each chunk.
type Metadata struct {
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
}

// Context is the partial product-context update a retrieval produces.
type Context struct {
	ProductName string
	Category    string
	Price       string
}

// Empty reports whether the update carries nothing.
func (c Context) Empty() bool {
	return c.ProductName == "" && c.Category == "" && c.Price == ""
}

// Result is the transient outcome of one retrieval. Never cached across turns.
type Result struct {
	// Answer is either grounding text for the synthesizer or, when Direct
	// is set, a finished sentence to speak as-is.
	Answer string
	// Direct marks answers that bypass generative synthesis: the price fast
	// path, the no-results escalation, and failure fallbacks.
	Direct  bool
	Context Context
}

// Embedder turns text into a vector. Treated as an opaque provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the nearest-neighbor store. Results come back ascending by
// distance (closest first).
type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Document, error)
}

// StockLookup reports current stock units for a product name. Optional
// collaborator; implementations must be safe for concurrent use.
type StockLookup interface {
	Lookup(productName string) (units int, ok bool)
}
