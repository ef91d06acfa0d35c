package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/editor"
	"github.com/iw2rmb/tincture/internal/config"
	"github.com/iw2rmb/tincture/internal/logging"
)

// annotInteractive marks commands that own the terminal; they never log
// to it.
const annotInteractive = "interactive"

type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "tincture",
		Short: "Edit and normalize rich-text documents",
		Long: `tincture works with the HTML subset of the tincture document model:
paragraphs, headings, lists, quotes, rules, inline marks, gradient text and
resizable images.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.log.Sync() },
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newEditCmd(a),
		newFmtCmd(a),
		newApplyCmd(a),
		newCommandsCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	var console io.Writer = cmd.ErrOrStderr()
	if cmd.Annotations[annotInteractive] == "true" {
		console = nil
	}
	log, err := logging.New(cfg.Logging, logging.Options{Verbose: a.verbose, Console: console})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg, a.log = cfg, log
	a.log.Debug("config loaded", zap.String("path", a.configPath), zap.String("command", cmd.Name()))
	return nil
}

// editorConfig maps the configuration file onto an editor configuration.
func (a *app) editorConfig(content string) editor.Config {
	c := a.cfg
	return editor.Config{
		Content:      content,
		Sanitize:     c.Editor.Sanitize,
		HistoryLimit: c.Editor.HistoryLimit,
		MinWidth:     c.Resize.MinWidth,
		MaxWidth:     c.Resize.MaxWidth,
		HandleSize:   c.Resize.HandleSize,
		Logger:       a.log,
		Display: editor.Display{
			CellWidth:          c.Display.CellWidth,
			CellHeight:         c.Display.CellHeight,
			DefaultImageWidth:  c.Display.DefaultImageWidth,
			DefaultImageHeight: c.Display.DefaultImageHeight,
			FrameInterval:      c.Display.FrameInterval(),
			HideStatus:         c.Display.HideStatus,
		},
	}
}
