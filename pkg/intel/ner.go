package intel

// ner.go - optional named-entity augmentation using Hugot/ONNX.
//
// A local token classification model adds persons, organizations,
// locations, dates and money mentions on top of the regex categories.
// Everything here degrades gracefully: no model on disk, no ONNX
// runtime, or a failed inference all leave the regex result untouched.
//
// Build:
// - Standard: go build (uses Go backend, slower but no dependencies)
// - With ORT: go build -tags ORT (uses ONNX Runtime, faster)

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// NERConfig configures the augmenter.
type NERConfig struct {
	// ModelPath is the local path to the ONNX model directory.
	ModelPath string

	// OnnxLibraryPath is the path to libonnxruntime.so. Empty selects
	// the pure-Go backend.
	OnnxLibraryPath string
}

// NERAugmenter wraps a Hugot token classification pipeline.
type NERAugmenter struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
	mu       sync.RWMutex
	ready    bool
}

// nerModelSearchPaths are checked in order for a model.onnx.
var nerModelSearchPaths = []string{
	"./models/ner",
	"/opt/trapwire/models/ner",
}

// AutoDetectNERConfig locates a usable model on disk. Returns nil when
// none is found, which callers must treat as "NER unavailable".
func AutoDetectNERConfig() *NERConfig {
	candidates := nerModelSearchPaths
	if envPath := os.Getenv("TRAPWIRE_NER_MODEL_PATH"); envPath != "" {
		candidates = append([]string{envPath}, candidates...)
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, "model.onnx")); err == nil {
			return &NERConfig{
				ModelPath:       dir,
				OnnxLibraryPath: defaultOnnxPath(),
			}
		}
	}
	return nil
}

// defaultOnnxPath returns the ONNX Runtime library directory for the
// current platform, or empty when not installed.
func defaultOnnxPath() string {
	paths := []string{
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return filepath.Dir(p)
		}
	}
	return ""
}

// NewNERAugmenter initializes the pipeline. Returns an error when the
// session or pipeline cannot be created.
func NewNERAugmenter(cfg NERConfig) (*NERAugmenter, error) {
	n := &NERAugmenter{}

	session, err := n.createSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}
	n.session = session

	config := hugot.TokenClassificationConfig{
		ModelPath: cfg.ModelPath,
		Name:      "conversation-ner",
	}

	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("create ner pipeline: %w", err)
	}

	n.pipeline = pipeline
	n.ready = true
	return n, nil
}

// NewAutoDetectedNERAugmenter creates an augmenter from an auto-detected
// model. Returns nil when no model is available or init fails; callers
// pass the nil straight to the extractor, which ignores it.
func NewAutoDetectedNERAugmenter() *NERAugmenter {
	cfg := AutoDetectNERConfig()
	if cfg == nil {
		return nil
	}
	n, err := NewNERAugmenter(*cfg)
	if err != nil {
		logger.NewDefault().WithComponent("ner").Warn().Err(err).
			Msg("initialization failed, augmentation disabled")
		return nil
	}
	return n
}

func (n *NERAugmenter) createSession(cfg NERConfig) (*hugot.Session, error) {
	if cfg.OnnxLibraryPath != "" {
		session, err := hugot.NewORTSession(options.WithOnnxLibraryPath(cfg.OnnxLibraryPath))
		if err == nil {
			return session, nil
		}
		logger.NewDefault().WithComponent("ner").Warn().Err(err).
			Msg("ORT session failed, falling back to Go backend")
	}
	return hugot.NewGoSession()
}

// Ready reports whether the pipeline is usable.
func (n *NERAugmenter) Ready() bool {
	if n == nil {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.ready
}

// Recognize runs token classification over the text and buckets the
// recognized spans by entity type.
func (n *NERAugmenter) Recognize(text string) (*NEREntities, error) {
	if !n.Ready() {
		return nil, fmt.Errorf("ner augmenter not ready")
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	result, err := n.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("ner inference failed: %w", err)
	}

	out := &NEREntities{}
	for _, spans := range result.Entities {
		for _, span := range spans {
			bucketEntity(out, span.Entity, span.Word)
		}
	}

	sortEntities(out)
	return out, nil
}

// bucketEntity assigns one recognized span to its output bucket. Label
// schemes vary across models (PER vs B-PER vs PERSON), so matching is
// by substring on the upper-cased label.
func bucketEntity(out *NEREntities, label, word string) {
	word = strings.TrimSpace(word)
	if len(word) < minMatchLen {
		return
	}

	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "PER"):
		out.Persons = appendUnique(out.Persons, word)
	case strings.Contains(upper, "ORG"):
		out.Organizations = appendUnique(out.Organizations, word)
	case strings.Contains(upper, "LOC") || strings.Contains(upper, "GPE"):
		out.Locations = appendUnique(out.Locations, word)
	case strings.Contains(upper, "DATE") || strings.Contains(upper, "TIME"):
		out.Dates = appendUnique(out.Dates, word)
	case strings.Contains(upper, "MONEY") || strings.Contains(upper, "CURRENCY"):
		out.Money = appendUnique(out.Money, word)
	}
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

func sortEntities(out *NEREntities) {
	sort.Strings(out.Persons)
	sort.Strings(out.Organizations)
	sort.Strings(out.Locations)
	sort.Strings(out.Dates)
	sort.Strings(out.Money)
}

// Close releases the underlying session.
func (n *NERAugmenter) Close() error {
	if n == nil || n.session == nil {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ready = false
	return n.session.Destroy()
}
