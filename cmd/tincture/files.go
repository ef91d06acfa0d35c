package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
)

// Raw HTML inside Markdown is escaped, not passed through.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))

var warnColor = color.New(color.FgYellow)

// readInput reads the named file, or standard input for "-" or no
// argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// inputFormat resolves the --from flag; an empty value is inferred from
// the file extension.
func inputFormat(from string, args []string) (string, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	if from == "" && len(args) > 0 {
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".md", ".markdown":
			from = formatMarkdown
		}
	}
	switch from {
	case "", formatHTML:
		return formatHTML, nil
	case formatMarkdown, "md":
		return formatMarkdown, nil
	}
	return "", fmt.Errorf("unknown input format %q (want html or markdown)", from)
}

// readDocument is readInput converted to markup.
func readDocument(cmd *cobra.Command, args []string, from string) (string, error) {
	format, err := inputFormat(from, args)
	if err != nil {
		return "", err
	}
	src, err := readInput(cmd, args)
	if err != nil || format == formatHTML {
		return src, err
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

func warnf(cmd *cobra.Command, format string, args ...any) {
	_, _ = warnColor.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// writeFile replaces path through a temporary file in the same directory
// so readers never observe a partial document. An existing file keeps
// its permissions.
func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	name := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(fmt.Errorf("write %s: %w", path, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync %s: %w", path, err))
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(fmt.Errorf("chmod %s: %w", path, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
