package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"linear-release-notes/models"
	"linear-release-notes/services"
)

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "linear-release-notes",
		Short: "Summarize recently updated Linear tickets into a release note",
		Long: `Fetches the team's tickets updated within the lookback window from every active
project and from tickets without a project, summarizes them with the configured
language model and prints a release note grouped by project.

Configuration is read from the environment (and an optional .env file). Set
` + models.ConfigFileEnv + ` to overlay a YAML config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// run loads the configuration, generates the release note and prints it to stdout
func run(ctx context.Context, stdout, stderr io.Writer) error {
	log.SetPrefix(fmt.Sprintf("[%s] ", uuid.NewString()[:8]))

	config, err := models.LoadFromEnvironment()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	trackerService := services.NewLinearService(config)
	aiService, err := services.NewAIService(config)
	if err != nil {
		return err
	}

	summarizer := services.NewSummarizer(aiService, config)
	generator := services.NewReleaseNoteGenerator(trackerService, summarizer, config)
	note, err := generator.Generate(ctx)

	if report := generator.Report(); len(report) > 0 {
		if reportErr := services.RenderFetchReport(stderr, report); reportErr != nil {
			log.Printf("Failed to render fetch report: %v", reportErr)
		}
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprint(stdout, note)
	return err
}
