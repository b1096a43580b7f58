package walker

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/nao1215/wordhist/internal/model"
)

// Handler receives the documents found by a Walker.
type Handler interface {
	// Text is called with the content of every text file.
	Text(name string, data []byte)

	// Archive is called with the full content of every archive file.
	// A non-nil error aborts the walk and is returned as is.
	Archive(ctx context.Context, name string, data []byte) error

	// Skip is called for every entry that is not counted.
	Skip(doc model.SkippedDocument)
}

// Matcher decides whether a path is excluded from the walk.
// Paths are slash separated and relative to the walk root; directories
// carry a trailing slash. *ignore.GitIgnore satisfies this interface.
type Matcher interface {
	MatchesPath(path string) bool
}

// Walker traverses a directory tree.
type Walker struct {
	// fsys is the tree being walked.
	fsys fs.FS

	// root is prepended to paths in errors so they name the real location.
	root string

	// handler receives documents and skips.
	handler Handler

	// classify routes file names. Defaults to model.ClassifyFile.
	classify model.Classifier

	// exclude is optional. Nil excludes nothing.
	exclude Matcher

	// logger is used for debug output of the traversal.
	logger *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithRoot sets the display path of the walk root used in errors.
func WithRoot(root string) Option {
	return func(w *Walker) {
		w.root = root
	}
}

// WithClassifier replaces the file name classifier.
func WithClassifier(classify model.Classifier) Option {
	return func(w *Walker) {
		w.classify = classify
	}
}

// WithExclude sets the exclusion matcher.
func WithExclude(m Matcher) Option {
	return func(w *Walker) {
		w.exclude = m
	}
}

// WithLogger sets a custom logger for the walker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker over fsys that reports to handler.
func New(fsys fs.FS, handler Handler, opts ...Option) *Walker {
	w := &Walker{
		fsys:     fsys,
		handler:  handler,
		classify: model.ClassifyFile,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.Default()
	}

	return w
}

// Visit walks dir, a slash-separated path inside the walker's fs.FS
// ("." for the root). Every descendant of dir is processed before Visit
// returns. The first fatal error stops the walk and is returned; it is a
// *TraversalError unless it came from the context or Handler.Archive.
func (w *Walker) Visit(ctx context.Context, dir string) error {
	entries, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		return &TraversalError{Op: OpReadDir, Path: w.display(dir), Err: err}
	}

	w.logger.Debug("visiting directory", "path", w.display(dir), "entries", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := path.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return &TraversalError{Op: OpStat, Path: w.display(name), Err: err}
		}

		switch {
		case info.IsDir():
			if w.excluded(name + "/") {
				w.handler.Skip(model.SkippedDocument{Path: name, Reason: model.SkipExcluded})
				continue
			}
			if err := w.Visit(ctx, name); err != nil {
				return err
			}

		case info.Mode().IsRegular():
			if w.excluded(name) {
				w.handler.Skip(model.SkippedDocument{Path: name, Reason: model.SkipExcluded})
				continue
			}
			if err := w.visitFile(ctx, name); err != nil {
				return err
			}

		default:
			// Symlinks, sockets, devices and pipes.
			w.handler.Skip(model.SkippedDocument{
				Path:   name,
				Reason: model.SkipUnsupported,
				Detail: info.Mode().Type().String(),
			})
		}
	}

	return nil
}

func (w *Walker) visitFile(ctx context.Context, name string) error {
	switch w.classify(path.Base(name)) {
	case model.KindText:
		data, err := fs.ReadFile(w.fsys, name)
		if err != nil {
			w.handler.Skip(model.SkippedDocument{
				Path:   name,
				Reason: model.SkipUnreadable,
				Detail: err.Error(),
			})
			return nil
		}
		w.handler.Text(name, data)

	case model.KindArchive:
		data, err := fs.ReadFile(w.fsys, name)
		if err != nil {
			return &TraversalError{Op: OpRead, Path: w.display(name), Err: err}
		}
		return w.handler.Archive(ctx, name, data)

	default:
		w.handler.Skip(model.SkippedDocument{Path: name, Reason: model.SkipUnsupported})
	}

	return nil
}

func (w *Walker) excluded(name string) bool {
	return w.exclude != nil && w.exclude.MatchesPath(name)
}

// display converts an fs.FS path to the path shown to the user.
func (w *Walker) display(name string) string {
	if w.root == "" {
		return name
	}
	return filepath.Join(w.root, filepath.FromSlash(name))
}
