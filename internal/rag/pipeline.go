package rag

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// Fixed replies for the degraded paths. The call must continue no matter
// what breaks behind the pipeline.
const (
	notFoundAnswer = "No encontré información exacta en el catálogo de Civetta. " +
		"Por favor avísale al usuario que consulte con un agente."
	failureAnswer = "Hubo un problema técnico interno verificando la disponibilidad."
)

var (
	priceIntentPattern = regexp.MustCompile(`(?i)\b(precio|cu[aá]nto cuesta|valor|costo)\b`)
	// Price values are stored inline in the chunk text, e.g. "PRECIO: $50.00, TALLA: M".
	priceMarkerPattern = regexp.MustCompile(`(?i)(?:PRECIO|VALOR|COSTO):\s*([^\n,]+)`)
)

// Pipeline turns a resolved search query into a grounded answer fragment and
// a context update. The hot path is one embedding call plus one
// nearest-neighbor query; generative rewriting happens downstream.
type Pipeline struct {
	embedder Embedder
	searcher Searcher
	stock    StockLookup // optional, may be nil
}

// NewPipeline wires the pipeline. stock may be nil.
func NewPipeline(embedder Embedder, searcher Searcher, stock StockLookup) *Pipeline {
	return &Pipeline{embedder: embedder, searcher: searcher, stock: stock}
}

// Retrieve runs the grounded search. anchor is the current product name, or
// empty. It never returns an error: every failure degrades to a safe direct
// answer with empty context.
func (p *Pipeline) Retrieve(ctx context.Context, searchQuery, anchor string) Result {
	res, err := p.retrieve(ctx, searchQuery, anchor)
	if err != nil {
		log.Printf("rag: retrieval failed for %q: %v", searchQuery, err)
		return Result{Answer: failureAnswer, Direct: true}
	}
	return res
}

func (p *Pipeline) retrieve(ctx context.Context, searchQuery, anchor string) (Result, error) {
	if p.searcher == nil {
		return Result{}, fmt.Errorf("no catalog store configured")
	}

	// Price short-circuit: the anchor name itself finds the product row far
	// more reliably than the raw question, and a wider window compensates
	// for near-duplicate chunks.
	searchTerm := searchQuery
	limit := 3
	priceIntent := false
	if anchor != "" && priceIntentPattern.MatchString(searchQuery) {
		searchTerm = anchor
		limit = 5
		priceIntent = true
	}

	vector, err := p.embedder.Embed(ctx, searchTerm)
	if err != nil {
		return Result{}, fmt.Errorf("embed: %w", err)
	}

	docs, err := p.searcher.Search(ctx, vector, limit)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}

	if priceIntent {
		if res, ok := p.priceFastPath(anchor, docs); ok {
			return res, nil
		}
	}

	if len(docs) == 0 {
		return Result{Answer: notFoundAnswer, Direct: true}, nil
	}

	var grounding strings.Builder
	for i, d := range docs {
		if i > 0 {
			grounding.WriteString("\n\n")
		}
		grounding.WriteString(d.Content)
	}

	top := docs[0]
	update := Context{
		ProductName: top.Metadata.ProductName,
		Category:    top.Metadata.Category,
	}
	if m := priceMarkerPattern.FindStringSubmatch(top.Content); m != nil {
		update.Price = strings.TrimSpace(m[1])
	}

	answer := grounding.String()
	if note, out := p.outOfStockNote(update.ProductName); out {
		answer = answer + "\n\n" + note
	}
	return Result{Answer: answer, Context: update}, nil
}

// priceFastPath answers a price question directly from stored text, skipping
// the synthesizer entirely.
func (p *Pipeline) priceFastPath(anchor string, docs []Document) (Result, bool) {
	lowerAnchor := strings.ToLower(anchor)
	for _, d := range docs {
		if !strings.Contains(strings.ToLower(d.Content), lowerAnchor) {
			continue
		}
		m := priceMarkerPattern.FindStringSubmatch(d.Content)
		if m == nil {
			continue
		}
		price := strings.TrimSpace(m[1])
		answer := fmt.Sprintf("El precio de %s es %s.", anchor, price)
		if note, out := p.outOfStockNote(anchor); out {
			answer = answer + " " + note
		}
		return Result{
			Answer:  answer,
			Direct:  true,
			Context: Context{ProductName: anchor, Price: price},
		}, true
	}
	return Result{}, false
}

// outOfStockNote consults the optional stock view and pivots the answer when
// the product is sold out.
func (p *Pipeline) outOfStockNote(productName string) (string, bool) {
	if p.stock == nil || productName == "" {
		return "", false
	}
	units, ok := p.stock.Lookup(productName)
	if !ok || units > 0 {
		return "", false
	}
	return fmt.Sprintf("ATENCIÓN: %s está AGOTADO en este momento; ofrece una alternativa similar del catálogo.", productName), true
}
