// Package walker implements the recursive directory traversal of wordhist.
//
// A Walker lists a directory, resolves the metadata of every child and routes
// it by kind: directories are descended, text files and ZIP archives are read
// into memory and handed to a Handler, and everything else is reported as
// unsupported.
//
// Failures come in two tiers. Listing a directory, resolving an entry's
// metadata or reading an archive from disk are fatal: the walk stops and a
// *TraversalError naming the offending path is returned through every
// recursive call. Problems with a single document (an unreadable text file,
// an excluded path, an unknown extension) go to Handler.Skip and the walk
// continues.
//
// The walker works on an fs.FS so tests can substitute in-memory trees and
// inject listing or metadata failures.
package walker
