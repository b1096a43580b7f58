// Package wordcount turns raw document bytes into a distinct word count.
//
// A word is a maximal run of non-whitespace characters, where whitespace is
// any Unicode White_Space character. Words are compared byte for byte: no
// case folding, no punctuation stripping, no normalization. Repeated words
// count once.
//
// Decode rejects bytes that are not valid UTF-8, so binary files that happen
// to carry a .txt name are skipped rather than counted as noise.
package wordcount
