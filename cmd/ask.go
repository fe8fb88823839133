package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/talkease/internal/assistant"
	"github.com/lehigh-university-libraries/talkease/internal/models"
	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		filePath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a single question",
		Long: `Answers one question typed on the command line, taken from a file, or both.

When both are given the typed question is used and the file is only shown.
Supported files are plain text, PDF, Word (.docx), JPEG and PNG.`,
		Example: `  # Ask a typed question
  talkease ask "What is the capital of France?"

  # Use the text of a document as the question
  talkease ask --file notes.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadUpload(filePath)
			if err != nil {
				return err
			}

			svc, err := newAssistant(opts.cfg, slog.Default())
			if err != nil {
				return err
			}

			result := svc.Submit(cmd.Context(), assistant.Question{
				Text: strings.Join(args, " "),
				File: file,
			})
			return render(cmd.OutOrStdout(), result, asJSON)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to read the question from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// loadUpload reads a local file as an upload; an empty path means no file
func loadUpload(path string) (*models.UploadedFile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &models.UploadedFile{
		ContentType: models.ResolveContentType("", path, data),
		Data:        data,
		Filename:    filepath.Base(path),
	}, nil
}

func render(w io.Writer, result models.DisplayResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Image != nil {
		for _, d := range result.Image.Details() {
			fmt.Fprintf(w, "%s: %s\n", d.Label, d.Value)
		}
		fmt.Fprintln(w)
	}
	if result.Recognized != "" {
		fmt.Fprintf(w, "Question recognized: %s\n\n", result.Recognized)
	}

	switch result.Kind {
	case models.DisplayAnswer:
		fmt.Fprintf(w, "Response:\n%s\n", result.Text)
	default:
		fmt.Fprintln(w, result.Text)
	}
	return nil
}
