package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/trapwire-labs/trapwire/pkg/httputil"
)

// ScamPhrase is a seed phrase with metadata for embedding search.
type ScamPhrase struct {
	Text     string
	Category string
}

// SemanticDetector flags messages by embedding similarity to known scam
// openers. It supplements the lexical ensemble: paraphrased scripts that
// share no vocabulary with the training corpus still land near their
// seed phrase in embedding space.
type SemanticDetector struct {
	db         *chromem.DB
	collection *chromem.Collection
	threshold  float32
	mu         sync.RWMutex
	ready      bool
}

// SemanticResult is the outcome of a semantic lookup.
type SemanticResult struct {
	Score       float32 // Highest similarity (0.0-1.0)
	Category    string  // Scam playbook of the matched seed
	MatchedText string  // The seed phrase that matched
	IsScam      bool    // True if score >= threshold
}

// newOllamaEmbeddingFunc creates an embedding function backed by a
// local Ollama server's /api/embeddings endpoint.
func newOllamaEmbeddingFunc(model, baseURL string) chromem.EmbeddingFunc {
	client := httputil.MediumClient()

	return func(ctx context.Context, text string) ([]float32, error) {
		reqBody := map[string]string{
			"model":  model,
			"prompt": text,
		}
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal embedding request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/api/embeddings", bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("create embedding request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		defer httputil.DrainAndClose(resp.Body)

		if resp.StatusCode != http.StatusOK {
			body, _ := httputil.ReadErrorBody(resp.Body)
			return nil, fmt.Errorf("ollama embedding returned %d: %s", resp.StatusCode, string(body))
		}

		var result struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}

		return result.Embedding, nil
	}
}

// NewSemanticDetector creates a detector using Ollama embeddings.
// Call LoadSeeds before the first Score call.
func NewSemanticDetector(ollamaURL string) (*SemanticDetector, error) {
	db := chromem.NewDB()

	embeddingFunc := newOllamaEmbeddingFunc("nomic-embed-text", ollamaURL)

	collection, err := db.CreateCollection("scam_phrases", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create phrase collection: %w", err)
	}

	return &SemanticDetector{
		db:         db,
		collection: collection,
		threshold:  0.7,
	}, nil
}

// LoadSeeds embeds the curated scam openers into the vector store.
func (sd *SemanticDetector) LoadSeeds(ctx context.Context) error {
	sd.mu.Lock()
	defer sd.mu.Unlock()

	phrases := seedPhrases()
	docs := make([]chromem.Document, len(phrases))
	for i, p := range phrases {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("phrase_%d", i),
			Content: p.Text,
			Metadata: map[string]string{
				"category": p.Category,
			},
		}
	}

	// One worker keeps the load gentle on a local embedding server.
	if err := sd.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add seed phrases: %w", err)
	}

	sd.ready = true
	return nil
}

// Ready reports whether seeds are loaded.
func (sd *SemanticDetector) Ready() bool {
	sd.mu.RLock()
	defer sd.mu.RUnlock()
	return sd.ready
}

// Score finds the nearest seed phrase for the text.
func (sd *SemanticDetector) Score(ctx context.Context, text string) (*SemanticResult, error) {
	sd.mu.RLock()
	defer sd.mu.RUnlock()

	if !sd.ready {
		return nil, fmt.Errorf("semantic detector not initialized - call LoadSeeds first")
	}

	results, err := sd.collection.Query(ctx, strings.ToLower(text), 1, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("phrase query failed: %w", err)
	}
	if len(results) == 0 {
		return &SemanticResult{}, nil
	}

	best := results[0]
	return &SemanticResult{
		Score:       best.Similarity,
		Category:    best.Metadata["category"],
		MatchedText: best.Content,
		IsScam:      best.Similarity >= sd.threshold,
	}, nil
}

// seedPhrases returns one representative opener per scam playbook in
// the training corpus.
func seedPhrases() []ScamPhrase {
	return []ScamPhrase{
		{"your bank account will be blocked today unless you verify", "account_blocking"},
		{"share your upi id immediately to avoid suspension", "upi_fraud"},
		{"tell me the otp you just received", "otp_theft"},
		{"transfer a small amount to verify account ownership", "advance_fee"},
		{"congratulations you have won a lottery prize claim now", "prize_bait"},
		{"your kyc has expired complete verification urgently", "kyc_pretext"},
		{"click this link to secure your account", "phishing"},
		{"this is the reserve bank compliance department", "authority_impersonation"},
		{"you have been selected for a job pay the registration fee", "job_scam"},
		{"guaranteed returns double your investment in a month", "investment_scam"},
		{"your instant loan is approved pay the processing charge", "loan_scam"},
		{"a refund is pending share your bank details to receive it", "refund_bait"},
	}
}
