package archive

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/compress/zip"

	"github.com/nao1215/wordhist/internal/model"
)

// Sink receives what an Unpacker finds.
type Sink interface {
	// Text is called for every text entry with its composite label
	// (see model.MemberLabel) and its full content.
	Text(label string, data []byte)

	// Skip is called for every archive or entry that is not counted.
	Skip(doc model.SkippedDocument)
}

// Stats summarizes one Unpack call, nested archives included.
type Stats struct {
	// Archives is the number of archives whose index was read successfully.
	Archives int

	// Members is the number of text entries forwarded to the Sink.
	Members int
}

// Unpacker walks the entries of in-memory ZIP archives.
type Unpacker struct {
	// sink receives text entries and skips.
	sink Sink

	// classify routes entry names. Defaults to model.ClassifyArchiveEntry.
	classify model.Classifier

	// logger is used for debug output of the traversal.
	logger *slog.Logger
}

// Option configures an Unpacker.
type Option func(*Unpacker)

// WithClassifier replaces the entry name classifier.
func WithClassifier(classify model.Classifier) Option {
	return func(u *Unpacker) {
		u.classify = classify
	}
}

// WithLogger sets a custom logger for the unpacker.
func WithLogger(logger *slog.Logger) Option {
	return func(u *Unpacker) {
		u.logger = logger
	}
}

// NewUnpacker creates an Unpacker that reports to sink.
func NewUnpacker(sink Sink, opts ...Option) *Unpacker {
	u := &Unpacker{
		sink:     sink,
		classify: model.ClassifyArchiveEntry,
	}

	for _, opt := range opts {
		opt(u)
	}

	if u.logger == nil {
		u.logger = slog.Default()
	}

	return u
}

// Unpack processes the archive held in data. name labels the archive in
// member labels and skip reports.
//
// Entries are visited in archive index order. Text entries go to the Sink,
// archive entries are unpacked recursively, everything else is skipped.
// The returned error is non-nil only when ctx is cancelled.
func (u *Unpacker) Unpack(ctx context.Context, name string, data []byte) (Stats, error) {
	var stats Stats
	err := u.unpack(ctx, name, data, &stats)
	return stats, err
}

func (u *Unpacker) unpack(ctx context.Context, name string, data []byte, stats *Stats) error {
	if len(data) == 0 {
		u.skip(name, model.SkipMalformedArchive, &Error{Archive: name, Err: ErrEmptyArchive})
		return nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		u.skip(name, model.SkipMalformedArchive, &Error{Archive: name, Err: err})
		return nil
	}
	stats.Archives++

	u.logger.Debug("archive opened", "archive", name, "entries", len(reader.File))

	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		label := model.MemberLabel(name, file.Name)

		if file.FileInfo().IsDir() {
			continue
		}

		switch u.classify(file.Name) {
		case model.KindArchive:
			content, err := readEntry(file)
			if err != nil {
				u.skip(label, model.SkipUnreadable, &Error{Archive: name, Entry: file.Name, Err: err})
				continue
			}
			if err := u.unpack(ctx, label, content, stats); err != nil {
				return err
			}

		case model.KindText:
			content, err := readEntry(file)
			if err != nil {
				u.skip(label, model.SkipUnreadable, &Error{Archive: name, Entry: file.Name, Err: err})
				continue
			}
			stats.Members++
			u.sink.Text(label, content)

		default:
			u.sink.Skip(model.SkippedDocument{Path: label, Reason: model.SkipUnsupported})
		}
	}

	return nil
}

// skip reports a document that could not be processed.
func (u *Unpacker) skip(label string, reason model.SkipReason, err error) {
	u.sink.Skip(model.SkippedDocument{
		Path:   label,
		Reason: reason,
		Detail: err.Error(),
	})
}

// readEntry reads the full decompressed content of one entry.
// Checksum mismatches surface here as read errors.
func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
