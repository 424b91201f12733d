// sigil - JSON codec CLI tool
//
// Usage:
//
//	sigil fmt [options] [file]      Pretty-print JSON with 2-space indentation
//	sigil compact [options] [file]  Re-encode JSON in compact form
//	sigil check [file]              Validate JSON and report the first error
//	sigil canon [file]              Emit the canonical form (sorted keys, compact)
//	sigil hash [file]               Print the canonical content hash
//	sigil version                   Print version info
//
// If no file is given, reads from stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Neumenon/sigil/sigil"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	sortKeys := false
	nonFinite := false
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--sort-keys":
			sortKeys = true
		case arg == "--allow-non-finite":
			nonFinite = true
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
	}

	switch cmd {
	case "fmt":
		cmdReencode(input, sigil.OptIndent2|sigil.OptAppendNewline, sortKeys, nonFinite)
	case "compact":
		cmdReencode(input, sigil.OptAppendNewline, sortKeys, nonFinite)
	case "check":
		cmdCheck(input, nonFinite)
	case "canon":
		cmdCanon(input)
	case "hash":
		cmdHash(input)
	case "version", "-v", "--version":
		fmt.Printf("sigil %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `sigil - JSON codec CLI tool

Usage:
  sigil fmt [options] [file]      Pretty-print JSON with 2-space indentation
  sigil compact [options] [file]  Re-encode JSON in compact form
  sigil check [file]              Validate JSON and report the first error
  sigil canon [file]              Emit the canonical form (sorted keys, compact)
  sigil hash [file]               Print the canonical content hash
  sigil version                   Print version info

Options:
  --sort-keys          Sort object keys byte-wise
  --allow-non-finite   Accept and emit NaN, Infinity, -Infinity

If no file is given, reads from stdin.

Examples:
  echo '{"b":1,"a":2}' | sigil fmt --sort-keys
  echo '[1,2,' | sigil check
  sigil hash data.json
`)
}

func decodeInput(r io.Reader, nonFinite bool) *sigil.Value {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	var opts sigil.DecodeOptions
	if nonFinite {
		opts.Flags = sigil.OptAllowNonFinite
	}
	v, err := sigil.DecodeWithOptions(data, opts)
	if err != nil {
		fatal("%v", err)
	}
	return v
}

func cmdReencode(r io.Reader, flags sigil.Opt, sortKeys, nonFinite bool) {
	v := decodeInput(r, nonFinite)
	if sortKeys {
		flags |= sigil.OptSortKeys
	}
	if nonFinite {
		flags |= sigil.OptAllowNonFinite
	}
	out, err := sigil.EncodeWithOptions(v, sigil.EncodeOptions{Flags: flags})
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(out)
}

func cmdCheck(r io.Reader, nonFinite bool) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}
	var opts sigil.DecodeOptions
	if nonFinite {
		opts.Flags = sigil.OptAllowNonFinite
	}
	if _, err := sigil.DecodeWithOptions(data, opts); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("valid")
}

func cmdCanon(r io.Reader) {
	v := decodeInput(r, false)
	out, err := sigil.Canonicalize(v)
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(out)
	fmt.Println()
}

func cmdHash(r io.Reader) {
	v := decodeInput(r, false)
	h, err := sigil.CanonicalHash(v)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("%016x\n", h)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "sigil: "+format+"\n", args...)
	os.Exit(1)
}
