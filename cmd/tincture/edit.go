package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/iw2rmb/tincture/editor"
	"github.com/iw2rmb/tincture/internal/imagesize"
	"github.com/iw2rmb/tincture/internal/watch"
)

func newEditCmd(a *app) *cobra.Command {
	var noAutosave bool
	cmd := &cobra.Command{
		Use:   "edit FILE",
		Short: "Edit a document in the terminal",
		Long: `edit opens FILE in a terminal editor. A missing file starts empty and is
created on the first save. Edits are saved after a pause (see autosave in
the configuration file), with ctrl+s and on quit (ctrl+q).

Click an image to select it and drag a corner to resize it; esc cancels
a drag.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("edit needs a terminal; use fmt or apply in scripts")
			}
			return a.edit(cmd.Context(), args[0], !noAutosave)
		},
	}
	cmd.Flags().BoolVar(&noAutosave, "no-autosave", false, "save only on ctrl+s and on quit")
	return cmd
}

func (a *app) edit(ctx context.Context, path string, autosave bool) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	f := &file{path: path, saved: string(data), log: a.log}
	prober := imagesize.New(filepath.Dir(path), a.log)

	cfg := a.editorConfig(string(data))
	cfg.ImageSize = prober.Size
	cfg.OnSave = f.save
	if autosave && a.cfg.Autosave.Enabled {
		cfg.AutosaveDelay = a.cfg.Autosave.Delay
	}
	m := editModel{editor: editor.NewModel(cfg), file: f, prober: prober}
	// Loading normalizes the markup; compare saves against that form.
	f.saved = m.editor.Editor().HTML()

	if a.cfg.Autosave.Reload {
		w, err := watch.New(ctx, path, 0, a.log)
		if err != nil {
			a.log.Warn("file watch unavailable", zap.String("path", path), zap.Error(err))
		} else {
			defer w.Close()
			m.changes = w.Changes()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(editModel); ok {
		fm.editor.Destroy()
		if saveErr := fm.flush(); saveErr != nil {
			return errors.Join(err, saveErr)
		}
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// file is the document on disk.
type file struct {
	path string
	// saved is the markup last read or written.
	saved string
	log   *zap.Logger
}

func (f *file) save(markup string) error {
	if markup == f.saved {
		return nil
	}
	if err := writeFile(f.path, []byte(markup+"\n")); err != nil {
		f.log.Error("save failed", zap.String("path", f.path), zap.Error(err))
		return err
	}
	f.saved = markup
	f.log.Debug("saved", zap.String("path", f.path), zap.Int("bytes", len(markup)))
	return nil
}

type fileChangedMsg struct{}

// waitChange turns the next watcher notification into a message.
func waitChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

// editModel hosts editor.Model in a full-screen program.
type editModel struct {
	editor  editor.Model
	file    *file
	prober  *imagesize.Prober
	changes <-chan struct{}
}

func (m editModel) Init() tea.Cmd {
	return tea.Batch(m.editor.Init(), waitChange(m.changes))
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Unsaved edits are flushed once the program exits.
		if s := msg.String(); s == "ctrl+q" || s == "ctrl+c" {
			return m, tea.Quit
		}
	case fileChangedMsg:
		m.reload()
		m.editor, cmd = m.editor.Update(msg)
		return m, tea.Batch(cmd, waitChange(m.changes))
	}
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m editModel) View() string { return m.editor.View() }

// flush writes unsaved edits.
func (m editModel) flush() error {
	return m.file.save(m.editor.Editor().HTML())
}

// reload picks up the file after another program changed it. Unsaved
// edits win over the disk.
func (m editModel) reload() {
	data, err := os.ReadFile(m.file.path)
	if err != nil {
		m.file.log.Debug("reload skipped", zap.Error(err))
		return
	}
	if strings.TrimSpace(string(data)) == m.file.saved {
		return
	}
	ed := m.editor.Editor()
	if ed.HTML() != m.file.saved {
		m.file.log.Warn("file changed on disk with unsaved edits; keeping edits", zap.String("path", m.file.path))
		return
	}
	if err := ed.SetContent(string(data)); err != nil {
		m.file.log.Debug("reload failed", zap.Error(err))
		return
	}
	m.prober.Forget()
	m.file.saved = ed.HTML()
	m.file.log.Info("reloaded", zap.String("path", m.file.path), zap.Int("bytes", len(data)))
}
