package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/desertthunder/cocktailparty/internal/tasks"
	"github.com/desertthunder/cocktailparty/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI. Unless --no-watch is set, the database file is
// watched so changes made by other cparty processes show up.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.closers = append(r.closers, closer)
	if err := shared.ApplyLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	kv, err := r.openKV(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes chan tasks.ProgressUpdate
	if !r.ephemeral && !cmd.Bool("no-watch") && r.config.Database.Path != shared.MemoryDatabase {
		changes = make(chan tasks.ProgressUpdate, 8)
		watcher := tasks.NewWatcher(r.config.Database.Path, tasks.WithWatcherLogger(fileLogger))
		go func() {
			if err := watcher.Run(ctx, changes); err != nil {
				fileLogger.Warn("database watcher stopped", "error", err)
			}
		}()
	}

	model := ui.NewModel(ctx, r.newStore(kv), r.cocktails, ui.Options{Changes: changes, OpenURL: r.openBrowser})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
