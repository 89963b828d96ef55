package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docchat.

Open a document, ask questions about it, and read the cited pages side
by side with the answers. Pass a file to open it straight away, and
--session to continue an earlier conversation.

Controls:
  Enter    - Open file / Ask question
  Tab      - Switch between conversation and pages
  ←/→      - Previous / next page
  Ctrl+G   - Go to the cited page
  Esc      - Back
  F1       - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringP("session", "s", "", "session ID to continue (default: a new session)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	sessionID, err := cmd.Flags().GetString("session")
	if err != nil {
		return fmt.Errorf("getting session flag: %w", err)
	}
	if sessionID == "" {
		sessionID = services.NewSessionID()
	}

	app, err := tui.NewApp(tui.NewPorts(documentService, queryService, historyService), sessionID)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithDocument(args[0])
	}

	// TUI is long-running, so pick up config and prompt edits.
	if configWatcher != nil {
		if err := configWatcher.Start(cmd.Context()); err != nil {
			logger.Warn("config watcher disabled: %v", err)
		} else {
			defer configWatcher.Close() //nolint:errcheck
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
