package walker

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"testing"
	"testing/fstest"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/nao1215/wordhist/internal/model"
)

// recordingHandler collects everything a Walker reports.
type recordingHandler struct {
	texts      map[string]string
	archives   []string
	skipped    []model.SkippedDocument
	archiveErr error
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{texts: make(map[string]string)}
}

func (h *recordingHandler) Text(name string, data []byte) {
	h.texts[name] = string(data)
}

func (h *recordingHandler) Archive(_ context.Context, name string, _ []byte) error {
	h.archives = append(h.archives, name)
	return h.archiveErr
}

func (h *recordingHandler) Skip(doc model.SkippedDocument) {
	h.skipped = append(h.skipped, doc)
}

func (h *recordingHandler) textNames() []string {
	names := make([]string, 0, len(h.texts))
	for n := range h.texts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (h *recordingHandler) skippedWith(reason model.SkipReason) []string {
	var out []string
	for _, d := range h.skipped {
		if d.Reason == reason {
			out = append(out, d.Path)
		}
	}
	sort.Strings(out)
	return out
}

// reversedFS lists directory entries in reverse name order.
type reversedFS struct {
	fstest.MapFS
}

func (r reversedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := r.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// failingReadDirFS fails to list one directory.
type failingReadDirFS struct {
	fstest.MapFS
	dir string
}

func (f failingReadDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == f.dir {
		return nil, fs.ErrPermission
	}
	return f.MapFS.ReadDir(name)
}

// failingInfoFS fails to resolve the metadata of one entry.
type failingInfoFS struct {
	fstest.MapFS
	entry string
}

func (f failingInfoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := f.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if e.Name() == f.entry {
			entries[i] = brokenEntry{DirEntry: e}
		}
	}
	return entries, nil
}

type brokenEntry struct {
	fs.DirEntry
}

func (brokenEntry) Info() (fs.FileInfo, error) {
	return nil, fs.ErrPermission
}

// failingReadFS fails to read one file.
type failingReadFS struct {
	fstest.MapFS
	file string
}

func (f failingReadFS) ReadFile(name string) ([]byte, error) {
	if name == f.file {
		return nil, fs.ErrPermission
	}
	return f.MapFS.ReadFile(name)
}

func sampleTree() fstest.MapFS {
	return fstest.MapFS{
		"a.txt":             {Data: []byte("a b c")},
		"UPPER.TXT":         {Data: []byte("shout")},
		"readme.md":         {Data: []byte("# ignored")},
		"noext":             {Data: []byte("ignored")},
		"pack.zip":          {Data: []byte("zip bytes")},
		"sub/b.txt":         {Data: []byte("b")},
		"sub/deeper/c.txt":  {Data: []byte("c")},
		"sub/deeper/in.ZIP": {Data: []byte("zip bytes")},
	}
}

// TestVisit tests routing of directory entries.
func TestVisit(t *testing.T) {
	t.Parallel()

	t.Run("routes text, archives and unsupported files", func(t *testing.T) {
		t.Parallel()

		h := newRecordingHandler()
		if err := New(sampleTree(), h).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantTexts := []string{"UPPER.TXT", "a.txt", "sub/b.txt", "sub/deeper/c.txt"}
		if got := h.textNames(); !slices.Equal(got, wantTexts) {
			t.Errorf("expected texts %v, got %v", wantTexts, got)
		}

		wantArchives := []string{"pack.zip", "sub/deeper/in.ZIP"}
		got := slices.Clone(h.archives)
		sort.Strings(got)
		if !slices.Equal(got, wantArchives) {
			t.Errorf("expected archives %v, got %v", wantArchives, got)
		}

		wantUnsupported := []string{"noext", "readme.md"}
		if got := h.skippedWith(model.SkipUnsupported); !slices.Equal(got, wantUnsupported) {
			t.Errorf("expected unsupported %v, got %v", wantUnsupported, got)
		}

		if h.texts["a.txt"] != "a b c" {
			t.Errorf("expected a.txt content to be passed through, got %q", h.texts["a.txt"])
		}
	})

	t.Run("listing order does not change what is visited", func(t *testing.T) {
		t.Parallel()

		forward := newRecordingHandler()
		if err := New(sampleTree(), forward).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		backward := newRecordingHandler()
		if err := New(reversedFS{sampleTree()}, backward).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(forward.textNames(), backward.textNames()) {
			t.Errorf("text sets differ: %v vs %v", forward.textNames(), backward.textNames())
		}
		if len(forward.archives) != len(backward.archives) {
			t.Errorf("archive counts differ: %v vs %v", forward.archives, backward.archives)
		}
	})

	t.Run("symlinks and special files are unsupported", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"link.txt": {Data: []byte("target.txt"), Mode: fs.ModeSymlink},
			"pipe":     {Mode: fs.ModeNamedPipe},
			"real.txt": {Data: []byte("real")},
		}

		h := newRecordingHandler()
		if err := New(fsys, h).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := h.textNames(); !slices.Equal(got, []string{"real.txt"}) {
			t.Errorf("expected only real.txt, got %v", got)
		}
		if got := h.skippedWith(model.SkipUnsupported); !slices.Equal(got, []string{"link.txt", "pipe"}) {
			t.Errorf("expected link.txt and pipe to be unsupported, got %v", got)
		}
	})

	t.Run("empty directory visits nothing", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{"empty": {Mode: fs.ModeDir}}

		h := newRecordingHandler()
		if err := New(fsys, h).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.texts) != 0 || len(h.archives) != 0 || len(h.skipped) != 0 {
			t.Errorf("expected nothing to be reported, got %+v", h)
		}
	})

	t.Run("custom classifier is honored", func(t *testing.T) {
		t.Parallel()

		classify := func(name string) model.DocumentKind {
			if filepath.Ext(name) == ".md" {
				return model.KindText
			}
			return model.KindUnsupported
		}

		h := newRecordingHandler()
		if err := New(sampleTree(), h, WithClassifier(classify)).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := h.textNames(); !slices.Equal(got, []string{"readme.md"}) {
			t.Errorf("expected only readme.md, got %v", got)
		}
	})
}

// TestVisitExclude tests gitignore-style exclusion.
func TestVisitExclude(t *testing.T) {
	t.Parallel()

	t.Run("excluded directories are not descended", func(t *testing.T) {
		t.Parallel()

		matcher := ignore.CompileIgnoreLines("sub/deeper/")

		h := newRecordingHandler()
		if err := New(sampleTree(), h, WithExclude(matcher)).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, ok := h.texts["sub/deeper/c.txt"]; ok {
			t.Error("expected sub/deeper to be excluded")
		}
		if _, ok := h.texts["sub/b.txt"]; !ok {
			t.Error("expected sub/b.txt to be visited")
		}
		if got := h.skippedWith(model.SkipExcluded); !slices.Equal(got, []string{"sub/deeper"}) {
			t.Errorf("expected sub/deeper excluded, got %v", got)
		}
	})

	t.Run("excluded files are reported as excluded", func(t *testing.T) {
		t.Parallel()

		matcher := ignore.CompileIgnoreLines("*.zip", "a.txt")

		h := newRecordingHandler()
		if err := New(sampleTree(), h, WithExclude(matcher)).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(h.archives) != 1 || h.archives[0] != "sub/deeper/in.ZIP" {
			t.Errorf("expected only the upper-case archive to survive, got %v", h.archives)
		}
		if got := h.skippedWith(model.SkipExcluded); !slices.Equal(got, []string{"a.txt", "pack.zip"}) {
			t.Errorf("unexpected excluded set %v", got)
		}
	})

	t.Run("metadata failures are fatal even for excluded entries", func(t *testing.T) {
		t.Parallel()

		fsys := failingInfoFS{MapFS: sampleTree(), entry: "a.txt"}
		matcher := ignore.CompileIgnoreLines("a.txt")

		err := New(fsys, newRecordingHandler(), WithExclude(matcher)).Visit(context.Background(), ".")
		var te *TraversalError
		if !errors.As(err, &te) || te.Op != OpStat {
			t.Errorf("expected stat TraversalError, got %v", err)
		}
	})
}

// TestVisitFailures tests the fail-fast tier.
func TestVisitFailures(t *testing.T) {
	t.Parallel()

	t.Run("listing failure in a subdirectory aborts the walk", func(t *testing.T) {
		t.Parallel()

		fsys := failingReadDirFS{MapFS: sampleTree(), dir: "sub/deeper"}

		err := New(fsys, newRecordingHandler(), WithRoot("/data")).Visit(context.Background(), ".")

		var te *TraversalError
		if !errors.As(err, &te) {
			t.Fatalf("expected *TraversalError, got %T (%v)", err, err)
		}
		if te.Op != OpReadDir {
			t.Errorf("expected op %q, got %q", OpReadDir, te.Op)
		}
		if te.Path != filepath.Join("/data", "sub", "deeper") {
			t.Errorf("expected path to name the directory, got %q", te.Path)
		}
		if !errors.Is(err, fs.ErrPermission) {
			t.Errorf("expected underlying permission error, got %v", err)
		}
	})

	t.Run("listing failure of the root is fatal", func(t *testing.T) {
		t.Parallel()

		fsys := failingReadDirFS{MapFS: sampleTree(), dir: "."}
		err := New(fsys, newRecordingHandler()).Visit(context.Background(), ".")

		var te *TraversalError
		if !errors.As(err, &te) || te.Op != OpReadDir {
			t.Errorf("expected readdir TraversalError, got %v", err)
		}
	})

	t.Run("metadata failure stops remaining siblings", func(t *testing.T) {
		t.Parallel()

		// Entries are listed by name, so "a.txt" fails before "noext",
		// "pack.zip", "readme.md" and "sub" are reached.
		fsys := failingInfoFS{MapFS: sampleTree(), entry: "a.txt"}
		h := newRecordingHandler()

		err := New(fsys, h).Visit(context.Background(), ".")

		var te *TraversalError
		if !errors.As(err, &te) {
			t.Fatalf("expected *TraversalError, got %v", err)
		}
		if te.Op != OpStat || te.Path != "a.txt" {
			t.Errorf("unexpected error fields: %+v", te)
		}
		if len(h.archives) != 0 {
			t.Errorf("expected no archives after the failure, got %v", h.archives)
		}
		if _, ok := h.texts["sub/b.txt"]; ok {
			t.Error("expected sub to be left unvisited")
		}
	})

	t.Run("unreadable archive is fatal", func(t *testing.T) {
		t.Parallel()

		fsys := failingReadFS{MapFS: sampleTree(), file: "pack.zip"}
		err := New(fsys, newRecordingHandler()).Visit(context.Background(), ".")

		var te *TraversalError
		if !errors.As(err, &te) || te.Op != OpRead || te.Path != "pack.zip" {
			t.Errorf("expected read TraversalError for pack.zip, got %v", err)
		}
	})

	t.Run("unreadable text file is skipped", func(t *testing.T) {
		t.Parallel()

		fsys := failingReadFS{MapFS: sampleTree(), file: "a.txt"}
		h := newRecordingHandler()

		if err := New(fsys, h).Visit(context.Background(), "."); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := h.skippedWith(model.SkipUnreadable); !slices.Equal(got, []string{"a.txt"}) {
			t.Errorf("expected a.txt to be unreadable, got %v", got)
		}
		if _, ok := h.texts["sub/b.txt"]; !ok {
			t.Error("expected the walk to continue after the skip")
		}
	})

	t.Run("archive handler errors abort the walk", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		h := newRecordingHandler()
		h.archiveErr = boom

		err := New(sampleTree(), h).Visit(context.Background(), ".")
		if !errors.Is(err, boom) {
			t.Errorf("expected handler error, got %v", err)
		}
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h := newRecordingHandler()
		err := New(sampleTree(), h).Visit(ctx, ".")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(h.texts) != 0 {
			t.Errorf("expected nothing visited, got %v", h.textNames())
		}
	})
}

// TestTraversalError tests error formatting.
func TestTraversalError(t *testing.T) {
	t.Parallel()

	err := &TraversalError{Op: OpStat, Path: "/data/x", Err: fs.ErrPermission}
	if err.Error() != "stat /data/x: permission denied" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected Unwrap to expose the cause")
	}
}
