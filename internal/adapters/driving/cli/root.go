// Package cli provides the docchat command line interface built on cobra.
//
// Commands reach the core only through driving ports. The binary's main
// package constructs the services once and injects them with SetServices
// before calling Execute.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services.
var (
	documentService driving.DocumentService
	queryService    driving.QueryService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	configWatcher   Watcher
)

var verbose bool

// Watcher reloads configuration while a long-running command is active.
type Watcher interface {
	Start(ctx context.Context) error
	Close() error
}

// Services holds the driving ports used by the commands.
type Services struct {
	Document driving.DocumentService
	Query    driving.QueryService
	History  driving.HistoryService
	Settings driving.SettingsService

	// Watcher is optional; the MCP server starts it when set.
	Watcher Watcher
}

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Ask questions about your documents",
	Long: `docchat answers questions about a PDF, DOCX, ODT, text or markdown
document using a language model, and cites the page each answer came from.

Upload a document to see its page-labeled text, ask questions about it,
and review the questions asked in a session.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	documentService = s.Document
	queryService = s.Query
	historyService = s.History
	settingsService = s.Settings
	configWatcher = s.Watcher
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
// Command output goes to stdout so JSON results can be piped.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
