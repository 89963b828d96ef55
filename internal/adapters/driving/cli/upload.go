package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var (
	uploadJSON     bool
	uploadShowText bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Extract page-labeled text from a document",
	Long: `Extracts the text of a document, splits it into pages and labels each
page with a "--- Page N ---" heading. A copy of the file is kept in the
data directory.

Supported formats: PDF, DOCX, ODT, plain text and markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "output the result as JSON")
	uploadCmd.Flags().BoolVar(&uploadShowText, "text", false, "print the labeled text")
	rootCmd.AddCommand(uploadCmd)
}

// uploadOutput is the JSON form of an upload result.
type uploadOutput struct {
	ExtractedText string `json:"extractedText"`
	FileURL       string `json:"fileUrl"`
	PageCount     int    `json:"pageCount"`
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Upload(cmd.Context(), domain.UploadRequest{Path: args[0]})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return fmt.Errorf("upload failed: %w (supported: %s)",
				err, strings.Join(documentService.SupportedExtensions(), ", "))
		}
		return fmt.Errorf("upload failed: %w", err)
	}

	if uploadJSON {
		data, err := json.MarshalIndent(uploadOutput{
			ExtractedText: result.ExtractedText,
			FileURL:       result.FileURL,
			PageCount:     result.PageCount(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Uploaded %s (%s)\n", filepath.Base(args[0]), pluralPages(result.PageCount()))
	cmd.Printf("Stored at: %s\n", result.FileURL)
	if uploadShowText {
		cmd.Println()
		cmd.Println(result.ExtractedText)
	}
	return nil
}

func pluralPages(n int) string {
	if n == 1 {
		return "1 page"
	}
	return fmt.Sprintf("%d pages", n)
}
