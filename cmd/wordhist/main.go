// Package main provides the entry point for the wordhist CLI.
//
// wordhist walks a directory tree, counts the distinct words of every text
// file and of every text entry inside (nested) ZIP archives, and prints a
// histogram of those counts.
//
// Usage:
//
//	wordhist scan <directory>
//	wordhist scan --bin-size 10 --with-zeroes <directory>
//
// See --help for all available options.
package main

// main is the entry point for wordhist.
func main() {
	Execute()
}
