package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/trapwire-labs/trapwire/pkg/config"
	"github.com/trapwire-labs/trapwire/pkg/intel"
	"github.com/trapwire-labs/trapwire/pkg/logger"
	"github.com/trapwire-labs/trapwire/pkg/ml"
	"github.com/trapwire-labs/trapwire/pkg/persona"
	"github.com/trapwire-labs/trapwire/pkg/session"
)

const Version = "0.1.0"

// defaultArtifactPath is where `trapwire train` writes the model when
// no path is configured.
const defaultArtifactPath = "./models/classifier.json"

// Engine bundles the detection and engagement components. Optional
// layers (semantic, NER, enrichment, archive, reporting) degrade to
// nil and the engine runs without them.
type Engine struct {
	cfg        *config.Config
	log        *logger.Logger
	classifier *ml.Classifier
	semantic   *ml.SemanticDetector
	ner        *intel.NERAugmenter
	store      session.Store
	archiver   session.Archiver
	reporter   session.Reporter
	orch       *session.Orchestrator
}

// NewEngine assembles the engine from config. It only fails when the
// session store is unusable; every detection layer has a fallback.
func NewEngine(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Engine, error) {
	e := &Engine{cfg: cfg, log: log}

	e.classifier = buildClassifier(cfg, log)

	if cfg.EnableNER {
		e.ner = intel.NewAutoDetectedNERAugmenter()
		if e.ner != nil && e.ner.Ready() {
			log.Info().Msg("NER augmentation enabled")
		} else {
			log.Info().Msg("NER augmentation disabled (no model found)")
		}
	}
	extractor := intel.NewExtractor(intel.WithNER(e.ner))

	if cfg.EnableSemantics {
		e.semantic = buildSemanticDetector(ctx, log)
	}

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	e.store = store

	if cfg.PostgresDSN != "" {
		archiver, err := session.NewPostgresArchive(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Warn().Err(err).Msg("session archive disabled")
		} else {
			e.archiver = archiver
		}
	}

	if cfg.ReportURL != "" {
		e.reporter = session.NewHTTPReporter(cfg.ReportURL, cfg.ReportAPIKey,
			time.Duration(cfg.ReportTimeoutMs)*time.Millisecond, log)
		log.Info().Str("url", cfg.ReportURL).Msg("report callback enabled")
	} else {
		log.Info().Msg("report callback disabled (no URL configured)")
	}

	enricher := persona.NewEnricher(cfg, log)
	if enricher != nil {
		log.Info().Str("provider", string(cfg.EnrichProvider)).Str("model", cfg.EnrichModel).Msg("persona enrichment enabled")
	} else {
		log.Info().Msg("persona enrichment disabled (rule-table replies only)")
	}
	responder := persona.NewResponder(enricher, log)

	opts := []session.OrchestratorOption{
		session.WithMaxTurns(cfg.MaxTurns),
		session.WithIntelThreshold(cfg.IntelThreshold),
	}
	if e.archiver != nil {
		opts = append(opts, session.WithArchiver(e.archiver))
	}
	if e.reporter != nil {
		opts = append(opts, session.WithReporter(e.reporter))
	}
	e.orch = session.NewOrchestrator(
		&layeredClassifier{ensemble: e.classifier, semantic: e.semantic},
		extractor, responder, store, log, opts...)

	return e, nil
}

// Close releases the engine's external connections.
func (e *Engine) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.archiver != nil {
		e.archiver.Close()
	}
	if e.ner != nil {
		_ = e.ner.Close()
	}
}

// buildClassifier loads the trained artifact, retrains from the
// bundled dataset when no artifact exists, and runs rule-only as the
// last resort. The message path never fails for want of a model.
func buildClassifier(cfg *config.Config, log *logger.Logger) *ml.Classifier {
	opts := []ml.ClassifierOption{
		ml.WithScamThreshold(cfg.ScamThreshold),
		ml.WithAccuracyGate(cfg.AccuracyGate),
	}

	if cfg.ModelPath != "" {
		c, err := ml.LoadClassifier(cfg.ModelPath, opts...)
		if err == nil {
			log.Info().Str("path", cfg.ModelPath).Float64("accuracy", c.Accuracy()).Msg("classifier artifact loaded")
			return c
		}
		log.Warn().Err(err).Str("path", cfg.ModelPath).Msg("artifact load failed, retraining from bundled dataset")
	}

	c, report, err := ml.TrainDefault(opts...)
	if err != nil {
		log.Warn().Err(err).Msg("training failed, running rule-pattern detection only")
		return ml.NewRuleOnlyClassifier(opts...)
	}
	if report.UsingEnsemble {
		log.Info().Float64("cv_accuracy", report.CVAccuracy).Int("samples", report.Samples).Msg("ensemble classifier trained")
	} else {
		log.Warn().Float64("cv_accuracy", report.CVAccuracy).Float64("gate", report.Gate).Msg("accuracy below gate, running rule-pattern detection")
	}
	return c
}

func buildSemanticDetector(ctx context.Context, log *logger.Logger) *ml.SemanticDetector {
	ollamaURL := config.GetEnv("TRAPWIRE_OLLAMA_URL", "http://localhost:11434")
	sd, err := ml.NewSemanticDetector(ollamaURL)
	if err != nil {
		log.Warn().Err(err).Msg("semantic detection disabled (init failed)")
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	if err := sd.LoadSeeds(loadCtx); err != nil {
		log.Warn().Err(err).Msg("semantic detection disabled (seed load failed)")
		return nil
	}
	log.Info().Msg("semantic detection enabled")
	return sd
}

func buildStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, error) {
	if cfg.RedisAddr != "" {
		store, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL, log)
		if err != nil {
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		return store, nil
	}
	return session.NewInMemoryStore(
		session.WithMaxAge(cfg.SessionTTL),
		session.WithCleanupInterval(cfg.CleanupInterval),
	), nil
}

// layeredClassifier runs the ensemble first and lets the semantic
// layer catch paraphrased openers the n-gram model misses. The
// semantic layer can only raise the verdict, never lower it.
type layeredClassifier struct {
	ensemble *ml.Classifier
	semantic *ml.SemanticDetector
}

func (l *layeredClassifier) Classify(text string) ml.ClassificationResult {
	result := l.ensemble.Classify(text)
	if result.IsScam || l.semantic == nil || !l.semantic.Ready() {
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sem, err := l.semantic.Score(ctx, text)
	if err != nil || sem == nil || !sem.IsScam {
		return result
	}
	return ml.ClassificationResult{IsScam: true, Confidence: float64(sem.Score)}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		if len(os.Args) > 2 {
			cfg.ListenAddr = ":" + strings.TrimPrefix(os.Args[2], ":")
		}
		cfg.MustValidate()
		runServer(cfg)
	case "train":
		path := defaultArtifactPath
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		runTrain(path)
	case "classify":
		if len(os.Args) < 3 {
			fmt.Println("Usage: trapwire classify <text>")
			os.Exit(1)
		}
		runClassify(strings.Join(os.Args[2:], " "))
	case "version":
		fmt.Printf("trapwire v%s\n", Version)
		fmt.Println("Scam engagement engine")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("trapwire v%s - scam engagement engine\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  trapwire serve [port]       Start the HTTP engine (default: 8080)")
	fmt.Println("  trapwire train [path]       Train the classifier and write the artifact")
	fmt.Println("  trapwire classify <text>    Classify a single message")
	fmt.Println("  trapwire version            Show version")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  TRAPWIRE_API_KEY            x-api-key required on /api endpoints")
	fmt.Println("  TRAPWIRE_MODEL_PATH         Trained classifier artifact")
	fmt.Println("  TRAPWIRE_REPORT_URL         Case-management callback URL")
	fmt.Println("  TRAPWIRE_REDIS_ADDR         Redis address for shared session state")
	fmt.Println("  TRAPWIRE_POSTGRES_DSN       PostgreSQL DSN for the session archive")
	fmt.Println("  TRAPWIRE_ENRICH_PROVIDER    ollama, openrouter, openai, custom, none")
	fmt.Println("  TRAPWIRE_CONFIG             YAML config file (env vars win)")
}

func runTrain(path string) {
	log := logger.NewDefault()

	classifier, report, err := ml.TrainDefault()
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	if err := classifier.Save(path); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("artifact save failed")
	}

	fmt.Printf("Trained on %d samples (%d scam)\n", report.Samples, report.ScamSamples)
	fmt.Printf("5-fold CV accuracy: %.4f (gate %.2f)\n", report.CVAccuracy, report.Gate)
	if report.UsingEnsemble {
		fmt.Println("Ensemble active")
	} else {
		fmt.Println("Accuracy below gate: engine will use rule-pattern fallback")
	}
	fmt.Printf("Artifact written to %s\n", path)
}

func runClassify(text string) {
	cfg := config.NewDefaultConfig()
	log := logger.New(logger.Config{Level: "error", Format: "console"})

	classifier := buildClassifier(cfg, log)
	result := classifier.Classify(text)

	out, _ := json.MarshalIndent(map[string]any{
		"isScam":     result.IsScam,
		"confidence": result.Confidence,
		"ensemble":   classifier.UsingEnsemble(),
	}, "", "  ")
	fmt.Println(string(out))
}
