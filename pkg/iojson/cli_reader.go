package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader reads a JSON document of type T from a file named by a CLI
// flag, or from stdin when the flag is unset and stdin is piped.
type FileReader[T any] struct {
	fileFlagValue string
}

// Flag returns the -f/--file flag that selects the input file. Register
// it on the command that owns the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

// Read decodes the input document. Reading from a terminal stdin is an
// error so an interactive invocation fails fast instead of hanging.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var reader io.Reader
	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		reader = os.Stdin
	}

	return DecodeFrom[T](reader)
}

// DecodeFrom decodes a single JSON document of type T from r.
func DecodeFrom[T any](r io.Reader) (T, error) {
	var input T
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
