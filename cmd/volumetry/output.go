package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/johndauphine/db-volumetry/internal/exitcodes"
	"github.com/johndauphine/db-volumetry/internal/fault"
)

func wantsJSON(c *cli.Context) bool {
	return c.Bool("output-json") || c.String("output-file") != ""
}

// outputJSON writes the result as JSON to stdout and/or a file
func outputJSON(c *cli.Context, result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if c.Bool("output-json") {
		fmt.Println(string(data))
	}

	if outputFile := c.String("output-file"); outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}
	return nil
}

// classifyConfigError marks unclassified validation errors as config errors.
func classifyConfigError(err error) error {
	if fault.KindOf(err) != fault.Unknown {
		return err
	}
	return exitcodes.NewExitError(err, exitcodes.ConfigError)
}

// fdReader is satisfied by *os.File.
type fdReader interface {
	io.Reader
	Fd() uintptr
}

// promptPassword reads a password without echo when in is a terminal, or a
// single line otherwise (for piped input).
func promptPassword(in fdReader, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		line, err := readLine(in)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return line, nil
	}

	fmt.Fprint(prompt, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if errors.Is(err, io.EOF) {
			if sb.Len() == 0 {
				return "", errors.New("no password on standard input")
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(sb.String(), "\r"), nil
}
