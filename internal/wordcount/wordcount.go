package wordcount

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidText is returned by Decode when the input is not valid UTF-8.
var ErrInvalidText = errors.New("document is not valid UTF-8 text")

// CountDistinct returns the number of distinct whitespace-delimited tokens in text.
// An empty or all-whitespace text yields 0.
func CountDistinct(text string) int {
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		seen[word] = struct{}{}
	}
	return len(seen)
}

// Decode validates data as UTF-8 and returns it as a string.
func Decode(data []byte) (string, error) {
	text, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return "", errors.Join(ErrInvalidText, err)
	}
	return string(text), nil
}

// CountDistinctBytes decodes data and counts its distinct words.
func CountDistinctBytes(data []byte) (int, error) {
	text, err := Decode(data)
	if err != nil {
		return 0, err
	}
	return CountDistinct(text), nil
}
