package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/command"
	"github.com/iw2rmb/tincture/doc"
	"github.com/iw2rmb/tincture/editor"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		sel   string
		node  string
		runs  []string
		write bool
		from  string
	)
	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Run editing commands against a document",
		Long: `apply loads FILE, sets the selection and runs each --run command in
order, then prints the resulting markup. A --run value is a command name
followed by its arguments, e.g. --run "setColor #ff0000". Commands that have
nothing to do are reported and skipped.

Positions are BLOCK:OFFSET, where BLOCK counts paragraphs and headings in
document order and OFFSET counts characters and images inside that block.`,
		Example: `  tincture apply doc.html --select 0:0-0:5 --run toggleBold
  tincture apply doc.html --node 2:0 --run "setImageWidth 320" --run "setImageAlign left" -w`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if sel != "" && node != "" {
				return errors.New("--select and --node are exclusive")
			}
			src, err := readDocument(cmd, args, from)
			if err != nil {
				return err
			}
			ed := editor.New(a.editorConfig(src))
			defer ed.Destroy()

			if err := selectIn(ed, sel, node); err != nil {
				return err
			}
			for _, r := range runs {
				fields := strings.Fields(r)
				if len(fields) == 0 {
					continue
				}
				err := ed.ExecName(fields[0], fields[1:]...)
				switch {
				case errors.Is(err, command.ErrNoOp):
					a.log.Info("command skipped", zap.String("command", fields[0]), zap.Error(err))
					warnf(cmd, "%s: nothing to do", fields[0])
				case err != nil:
					return err
				}
			}

			out := ed.HTML()
			if write {
				return writeFile(args[0], []byte(out+"\n"))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&sel, "select", "", "text selection B:O or B:O-B:O")
	cmd.Flags().StringVar(&node, "node", "", "select the image at B:O")
	cmd.Flags().StringArrayVar(&runs, "run", nil, "command to run (repeatable)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite FILE in place")
	cmd.Flags().StringVar(&from, "from", "", "input format: html or markdown (default from the file extension)")
	return cmd
}

func selectIn(ed *editor.Editor, sel, node string) error {
	root := ed.State().Doc
	switch {
	case node != "":
		p, err := parsePos(root, node)
		if err != nil {
			return err
		}
		if n := doc.NodeAt(root, p); n == nil || n.Kind != doc.KindImage {
			return fmt.Errorf("no image at %s", p)
		}
		ed.SetSelection(command.NodeSelection(p))
	case sel != "":
		from, to, ok := strings.Cut(sel, "-")
		anchor, err := parsePos(root, from)
		if err != nil {
			return err
		}
		head := anchor
		if ok {
			if head, err = parsePos(root, to); err != nil {
				return err
			}
		}
		ed.SetSelection(command.TextSelection(anchor, head))
	}
	return nil
}

func parsePos(root *doc.Node, s string) (doc.Pos, error) {
	b, o, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return doc.Pos{}, fmt.Errorf("position %q: want BLOCK:OFFSET", s)
	}
	block, err := strconv.Atoi(b)
	if err != nil {
		return doc.Pos{}, fmt.Errorf("position %q: %w", s, err)
	}
	offset, err := strconv.Atoi(o)
	if err != nil {
		return doc.Pos{}, fmt.Errorf("position %q: %w", s, err)
	}
	p := doc.Pos{Block: block, Offset: offset}
	if !doc.ValidPos(root, p) {
		return doc.Pos{}, fmt.Errorf("position %s is outside the document", p)
	}
	return p, nil
}
