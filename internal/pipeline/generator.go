package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"voiceforge/internal/asr"
	"voiceforge/internal/catalog"
	"voiceforge/internal/config"
	"voiceforge/internal/fileutil"
	"voiceforge/internal/history"
	"voiceforge/internal/language"
	"voiceforge/internal/logging"
	"voiceforge/internal/manifest"
	"voiceforge/internal/services"
	"voiceforge/internal/services/fishtts"
	"voiceforge/internal/services/separator"
	"voiceforge/internal/textutil"
)

// ErrBackendUnavailable indicates the synthesis server failed the health probe.
var ErrBackendUnavailable = errors.New("synthesis backend unreachable")

// ValidationError reports unusable pipeline inputs.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Deps carries the collaborators a Generator drives.
type Deps struct {
	Logger      *slog.Logger
	TTS         fishtts.Service
	Recognizer  asr.Recognizer
	Transcripts *asr.Cache
	Separator   separator.Client
	History     *history.Store // optional
	Output      io.Writer      // progress output; defaults to os.Stdout
}

// Generator runs the pack-generation pipeline for a single invocation.
type Generator struct {
	cfg         *config.Config
	logger      *slog.Logger
	tts         fishtts.Service
	recognizer  asr.Recognizer
	transcripts *asr.Cache
	separator   separator.Client
	history     *history.Store
	out         io.Writer
}

// New constructs a Generator with initialized dependencies.
func New(cfg *config.Config, deps Deps) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("generator requires config")
	}
	if deps.TTS == nil || deps.Recognizer == nil || deps.Transcripts == nil {
		return nil, errors.New("generator requires tts, recognizer, and transcript cache")
	}
	out := deps.Output
	if out == nil {
		out = os.Stdout
	}
	return &Generator{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(deps.Logger, "pipeline"),
		tts:         deps.TTS,
		recognizer:  deps.Recognizer,
		transcripts: deps.Transcripts,
		separator:   deps.Separator,
		history:     deps.History,
		out:         out,
	}, nil
}

// Request describes one pack-generation run.
type Request struct {
	RefAudio       string
	CatalogPath    string
	PackName       string
	Language       string
	OutputDir      string // overrides <packs_root>/<pack name>
	SeparateVocals bool
}

// Result summarizes a completed run.
type Result struct {
	PackDir      string
	ManifestPath string
	Total        int
	Generated    int
	Cached       int
	Failed       int
}

// Run executes the pipeline: optional vocal separation, catalog load,
// availability probe, cached transcription, per-line synthesis, checksums,
// and the manifest write. Per-line synthesis failures are logged and the
// line dropped; everything else is fatal.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	startedAt := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithPack(ctx, req.PackName)

	if req.PackName == "" {
		return nil, &ValidationError{Reason: "pack name required"}
	}
	if !textutil.SafePackName(req.PackName) {
		return nil, &ValidationError{Reason: fmt.Sprintf("pack name %q is not filesystem safe", req.PackName)}
	}
	if !language.Supported(req.Language) {
		if language.Plausible(req.Language) {
			return nil, &ValidationError{Reason: fmt.Sprintf("language %q is not supported yet (expected one of ja, en, ko)", req.Language)}
		}
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid language code %q (expected one of ja, en, ko)", req.Language)}
	}

	refAudio, err := filepath.Abs(req.RefAudio)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("resolve reference audio path: %v", err)}
	}
	if !fileutil.FileExists(refAudio) {
		return nil, &ValidationError{Reason: fmt.Sprintf("reference audio not found: %s", refAudio)}
	}

	packDir := req.OutputDir
	if packDir == "" {
		packDir = filepath.Join(g.cfg.Paths.PacksRoot, req.PackName)
	}
	soundsDir := filepath.Join(packDir, "sounds")
	if err := os.MkdirAll(soundsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sounds directory: %w", err)
	}

	// One run at a time per pack directory; concurrent runs would race on
	// clip files and the manifest.
	lock := flock.New(filepath.Join(packDir, ".voiceforge.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire pack lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another voiceforge run is active for %s", packDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if req.SeparateVocals {
		if g.separator == nil {
			return nil, errors.New("vocal separation requested but no separator configured")
		}
		fmt.Fprintf(g.out, "[1/4] Separating vocals from %s...\n", refAudio)
		cleaned, sepErr := g.separator.Separate(ctx, refAudio, g.cfg.SeparatedDir())
		if sepErr != nil {
			return nil, fmt.Errorf("separate vocals: %w", sepErr)
		}
		fmt.Fprintf(g.out, "  Cleaned audio: %s\n", cleaned)
		refAudio = cleaned
	} else {
		fmt.Fprintf(g.out, "[1/4] Using reference audio as-is: %s\n", refAudio)
	}

	cat, err := catalog.Load(req.CatalogPath, g.logger)
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("load line catalog: %v", err)}
	}
	if cat.Empty() {
		return nil, &ValidationError{Reason: "no valid lines found in the catalog"}
	}
	total := cat.Total()
	fmt.Fprintf(g.out, "[2/4] Loaded %d lines across %d categories\n", total, len(cat.Categories()))

	if !g.tts.Available(ctx) {
		return nil, ErrBackendUnavailable
	}

	refText, err := g.transcripts.Transcribe(ctx, g.recognizer, refAudio, req.Language)
	if err != nil {
		return nil, fmt.Errorf("transcribe reference audio: %w", err)
	}
	fmt.Fprintf(g.out, "  Reference transcript: %s\n", truncate(refText, 80))

	fmt.Fprintf(g.out, "[3/4] Generating %d voice lines...\n", total)
	pack := manifest.New(manifest.Identity{
		Name:     req.PackName,
		Version:  g.cfg.Pack.Version,
		Author:   g.cfg.Pack.Author,
		License:  g.cfg.Pack.License,
		Language: req.Language,
	})

	result := &Result{PackDir: packDir, Total: total}
	count := 0
	for _, category := range cat.Categories() {
		prefix, _ := catalog.Prefix(category)
		pack.EnsureCategory(category)
		for i, text := range cat.Lines(category) {
			count++
			name := prefix + strconv.Itoa(i+1)
			outPath := filepath.Join(soundsDir, name+".wav")

			if fileutil.FileExists(outPath) {
				fmt.Fprintf(g.out, "  [%d/%d] Cached: %s\n", count, total, name)
				result.Cached++
			} else {
				fmt.Fprintf(g.out, "  [%d/%d] Generating: %s -> %s\n", count, total, name, text)
				genErr := g.tts.Generate(ctx, fishtts.GenerateRequest{
					Text:         text,
					Language:     req.Language,
					RefAudioPath: refAudio,
					RefText:      refText,
					OutputPath:   outPath,
				})
				if genErr != nil {
					g.logger.Warn("line synthesis failed, skipping",
						logging.String("clip", name),
						logging.String("category", category),
						logging.Error(genErr))
					result.Failed++
					continue
				}
				result.Generated++
			}

			checksum, sumErr := fileutil.SHA256File(outPath)
			if sumErr != nil {
				g.logger.Warn("checksum failed, skipping line",
					logging.String("clip", name),
					logging.Error(sumErr))
				result.Failed++
				continue
			}
			pack.AddSound(category, manifest.Sound{
				File:   "sounds/" + name + ".wav",
				Label:  text,
				SHA256: checksum,
			})
		}
	}

	manifestPath := filepath.Join(packDir, manifest.FileName)
	if err := manifest.Write(manifestPath, pack); err != nil {
		return nil, err
	}
	result.ManifestPath = manifestPath
	fmt.Fprintf(g.out, "[4/4] Manifest written: %s\n", manifestPath)

	g.logger.Info("pack generation complete",
		logging.String("pack", req.PackName),
		logging.Int("generated", result.Generated),
		logging.Int("cached", result.Cached),
		logging.Int("failed", result.Failed),
		logging.Bool("separated", req.SeparateVocals),
		logging.Duration("elapsed", time.Since(startedAt)))

	g.recordRun(ctx, runID, req, result, startedAt)
	return result, nil
}

// recordRun persists the run in the history ledger, best effort.
func (g *Generator) recordRun(ctx context.Context, runID string, req Request, result *Result, startedAt time.Time) {
	if g.history == nil {
		return
	}
	_, err := g.history.Record(ctx, history.Run{
		ID:         runID,
		PackName:   req.PackName,
		Language:   req.Language,
		PackDir:    result.PackDir,
		TotalLines: result.Total,
		Generated:  result.Generated,
		Cached:     result.Cached,
		Failed:     result.Failed,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	})
	if err != nil {
		g.logger.Warn("record run history", logging.Error(err))
	}
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
