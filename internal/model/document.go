package model

import "strings"

// DocumentKind tells the walker and the archive unpacker how to route a file
// or an archive entry.
type DocumentKind int

const (
	// KindUnsupported marks names that are silently ignored.
	KindUnsupported DocumentKind = iota

	// KindText marks plain text documents that are tokenized and counted.
	KindText

	// KindArchive marks ZIP archives that are unpacked recursively.
	KindArchive
)

// Extensions recognized by the default classifiers.
const (
	TextExtension    = ".txt"
	ArchiveExtension = ".zip"
)

// String returns a human-readable representation of the kind.
func (k DocumentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindArchive:
		return "archive"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Classifier derives a DocumentKind from a name.
// Classifiers must be pure: the same name always yields the same kind.
type Classifier func(name string) DocumentKind

// ClassifyFile classifies a file found on disk. Matching is case-insensitive,
// so "NOTES.TXT" is text and "Bundle.Zip" is an archive.
func ClassifyFile(name string) DocumentKind {
	return classifySuffix(strings.ToLower(name))
}

// ClassifyArchiveEntry classifies an entry inside an archive. Matching is
// case-sensitive: "README.TXT" inside an archive is unsupported.
// Directory markers (names ending in "/") are unsupported.
func ClassifyArchiveEntry(name string) DocumentKind {
	if strings.HasSuffix(name, "/") {
		return KindUnsupported
	}
	return classifySuffix(name)
}

func classifySuffix(name string) DocumentKind {
	switch {
	case strings.HasSuffix(name, TextExtension):
		return KindText
	case strings.HasSuffix(name, ArchiveExtension):
		return KindArchive
	default:
		return KindUnsupported
	}
}

// MemberLabel builds the composite identifier of an archive member,
// e.g. "pack.zip[note.txt]". Nested members chain: "outer.zip[inner.zip][a.txt]".
func MemberLabel(archive, entry string) string {
	return archive + "[" + entry + "]"
}
