package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show the questions asked in a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output exchanges as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	exchanges, err := historyService.List(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(exchanges, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(exchanges) == 0 {
		cmd.Println("No exchanges recorded for this session.")
		return nil
	}

	for i := range exchanges {
		ex := exchanges[i]
		cmd.Printf("[%d] %s\n", i+1, ex.CreatedAt.Local().Format(time.DateTime))
		cmd.Printf("    Q: %s\n", ex.UserQuery)
		cmd.Printf("    A: %s\n", ex.AIResponse)
		if ex.PageCitation != nil {
			cmd.Printf("    Page: %d\n", *ex.PageCitation)
		}
		cmd.Println()
	}
	return nil
}
