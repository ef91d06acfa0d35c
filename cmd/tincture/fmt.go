package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/tincture/doc"
)

func newFmtCmd(a *app) *cobra.Command {
	var (
		sanitize bool
		warnings bool
		write    bool
		from     string
	)
	cmd := &cobra.Command{
		Use:   "fmt [FILE]",
		Short: "Parse a document and print its normalized markup",
		Long: `fmt parses FILE (or standard input) into the document model and
serializes it again. Unsupported markup degrades to plain structure;
--warnings lists what was dropped. Markdown input (--from markdown, or a
.md file) is converted to markup first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write && (len(args) == 0 || args[0] == "-") {
				return errors.New("--write needs a file")
			}
			src, err := readDocument(cmd, args, from)
			if err != nil {
				return err
			}
			if sanitize || a.cfg.Editor.Sanitize {
				src = doc.Sanitize(src)
			}
			root, warns := doc.ParseWithWarnings(src)
			if warnings {
				for _, w := range warns {
					warnf(cmd, "%s", w)
				}
			}
			out := doc.Serialize(root)
			if write {
				return writeFile(args[0], []byte(out+"\n"))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "strip markup outside the supported vocabulary first")
	cmd.Flags().BoolVar(&warnings, "warnings", false, "print parse degradations to stderr")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite FILE in place")
	cmd.Flags().StringVar(&from, "from", "", "input format: html or markdown (default from the file extension)")
	return cmd
}
