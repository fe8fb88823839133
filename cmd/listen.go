package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newListenCmd(opts *rootOptions) *cobra.Command {
	var (
		filePath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Ask a question by speaking",
		Long: `Calibrates for ambient noise, records one spoken question from the default
microphone and answers it. Recording stops after a short pause.

Requires SoX (rec) for recording.`,
		Example: `  # Speak a question
  talkease listen

  # Speak a question about an image
  talkease listen --file receipt.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadUpload(filePath)
			if err != nil {
				return err
			}

			svc, err := newAssistant(opts.cfg, slog.Default())
			if err != nil {
				return err
			}

			slog.Info("Listening... speak your question")
			return render(cmd.OutOrStdout(), svc.Listen(cmd.Context(), file), asJSON)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "File to upload alongside the spoken question")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
