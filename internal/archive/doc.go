// Package archive unpacks ZIP archives held in memory and forwards their text
// entries for counting.
//
// The Unpacker never touches the filesystem. It receives the complete bytes of
// an archive and, for entries that are archives themselves, calls itself on the
// entry bytes. Nesting depth is not limited.
//
// Nothing inside an archive is fatal to a run: a malformed archive, an
// unreadable entry or a broken nested archive is reported to the Sink as a
// skipped document and the remaining entries are still processed. Only
// context cancellation stops an unpack early.
package archive
