package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/config"

	"github.com/spf13/cobra"
)

// NewExportCmd writes a quiz's submissions as CSV.
func NewExportCmd(configPath *string) *cobra.Command {
	var quizID, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a quiz's submissions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return runExport(cmd.Context(), *configPath, quizID, w)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id to export")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	cmd.MarkFlagRequired("quiz")
	return cmd
}

func runExport(ctx context.Context, configPath, quizID string, w io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	quizzes := app.NewQuizService(b.stores, b.quizRepository(cfg), cfg.Payment.Currency)
	if _, err := quizzes.GetQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("export %s: %w", quizID, err)
	}
	subs, err := quizzes.SubmissionsFor(ctx, quizID)
	if err != nil {
		return err
	}
	return app.WriteSubmissionsCSV(w, subs)
}
