package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/nao1215/wordhist/internal/archive"
	"github.com/nao1215/wordhist/internal/model"
	"github.com/nao1215/wordhist/internal/report"
	"github.com/nao1215/wordhist/internal/walker"
	"github.com/nao1215/wordhist/internal/wordcount"
)

// IgnoreFileName is the per-root file holding gitignore-style exclusions.
const IgnoreFileName = ".wordhistignore"

// Engine walks one directory tree and accumulates a histogram of
// distinct-word counts.
type Engine struct {
	// histogram receives one count per document.
	histogram *model.Histogram

	// report collects the counters of the run.
	report *model.RunReport

	// exclude holds gitignore-style patterns applied on top of the
	// root's ignore file.
	exclude []string

	// useIgnoreFile enables reading IgnoreFileName from the root.
	useIgnoreFile bool

	// logger is used for structured logging during the run.
	logger *slog.Logger

	// started is set once Process has been called.
	started bool

	// done is set once Process has completed successfully.
	done bool
}

// Option is a function that configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithExclude adds gitignore-style exclusion patterns.
func WithExclude(patterns ...string) Option {
	return func(e *Engine) {
		e.exclude = append(e.exclude, patterns...)
	}
}

// WithIgnoreFile controls whether IgnoreFileName in the root is honored.
// It is honored by default.
func WithIgnoreFile(enabled bool) Option {
	return func(e *Engine) {
		e.useIgnoreFile = enabled
	}
}

// New creates an Engine with the given histogram settings.
// It returns model.ErrInvalidBinSize when binSize is less than 1.
func New(binSize int, includeZeroes bool, opts ...Option) (*Engine, error) {
	histogram, err := model.NewHistogram(binSize, includeZeroes)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		histogram:     histogram,
		useIgnoreFile: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e, nil
}

// Process walks root and folds every document into the histogram.
//
// The root must be an existing directory; otherwise Process fails before any
// traversal begins. A fatal walk error (see walker.TraversalError) aborts
// the run, and the partial histogram is never exposed.
func (e *Engine) Process(ctx context.Context, root string) error {
	if e.started {
		return ErrAlreadyProcessed
	}
	e.started = true

	info, err := os.Stat(root)
	if err != nil {
		return &walker.TraversalError{Op: walker.OpStat, Path: root, Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	matcher, err := e.compileExclude(root)
	if err != nil {
		return err
	}

	e.report = model.NewRunReport(root, e.histogram.BinSize(), e.histogram.IncludeZeroes())

	opts := []walker.Option{
		walker.WithRoot(root),
		walker.WithLogger(e.logger),
	}
	if matcher != nil {
		opts = append(opts, walker.WithExclude(matcher))
	}

	h := &treeHandler{
		engine: e,
	}
	h.unpacker = archive.NewUnpacker(&memberSink{engine: e}, archive.WithLogger(e.logger))

	e.logger.Debug("processing root", "root", root,
		"bin_size", e.histogram.BinSize(), "include_zeroes", e.histogram.IncludeZeroes())

	if err := walker.New(os.DirFS(root), h, opts...).Visit(ctx, "."); err != nil {
		return err
	}

	e.report.FinishedAt = time.Now()
	e.report.Documents = e.histogram.Documents()
	e.report.Bins = e.histogram.Bins()
	e.done = true

	e.logger.Debug("processing finished", "root", root,
		"documents", e.report.Documents, "skipped", e.report.SkippedCount(),
		"duration", e.report.Duration())

	return nil
}

// Report returns the report of the completed run, or nil when Process has
// not completed successfully.
func (e *Engine) Report() *model.RunReport {
	if !e.done {
		return nil
	}
	return e.report
}

// Render writes the histogram table of the completed run to w.
func (e *Engine) Render(w io.Writer) error {
	if !e.done {
		return ErrNotProcessed
	}
	_, err := report.NewTableWriter(w).Write(e.report)
	return err
}

// compileExclude combines the root's ignore file with the configured
// patterns. It returns nil when there is nothing to exclude.
func (e *Engine) compileExclude(root string) (*ignore.GitIgnore, error) {
	if e.useIgnoreFile {
		path := filepath.Join(root, IgnoreFileName)
		_, err := os.Stat(path)
		switch {
		case err == nil:
			matcher, err := ignore.CompileIgnoreFileAndLines(path, e.exclude...)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return matcher, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if len(e.exclude) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(e.exclude...), nil
}

// addDocument counts one document and folds it into the histogram.
// It reports whether the document was counted.
func (e *Engine) addDocument(label string, data []byte) bool {
	count, err := wordcount.CountDistinctBytes(data)
	if err != nil {
		e.skip(model.SkippedDocument{Path: label, Reason: model.SkipInvalidText, Detail: err.Error()})
		return false
	}

	e.histogram.Add(count)
	e.logger.Debug("document counted", "path", label, "words", count,
		"bin", count/e.histogram.BinSize())
	return true
}

// skip records a document that was not counted.
func (e *Engine) skip(doc model.SkippedDocument) {
	e.report.AddSkipped(doc)

	switch doc.Reason {
	case model.SkipUnsupported, model.SkipExcluded:
		e.logger.Debug("document skipped", "path", doc.Path, "reason", string(doc.Reason))
	default:
		e.logger.Warn("document skipped", "path", doc.Path, "reason", string(doc.Reason), "error", doc.Detail)
	}
}

// treeHandler receives documents from the walker.
type treeHandler struct {
	engine   *Engine
	unpacker *archive.Unpacker
}

func (h *treeHandler) Text(name string, data []byte) {
	if h.engine.addDocument(name, data) {
		h.engine.report.TextFiles++
	}
}

func (h *treeHandler) Archive(ctx context.Context, name string, data []byte) error {
	stats, err := h.unpacker.Unpack(ctx, name, data)
	h.engine.report.Archives += stats.Archives
	return err
}

func (h *treeHandler) Skip(doc model.SkippedDocument) {
	h.engine.skip(doc)
}

// memberSink receives text entries from the archive unpacker.
type memberSink struct {
	engine *Engine
}

func (s *memberSink) Text(label string, data []byte) {
	if s.engine.addDocument(label, data) {
		s.engine.report.ArchiveMembers++
	}
}

func (s *memberSink) Skip(doc model.SkippedDocument) {
	s.engine.skip(doc)
}
