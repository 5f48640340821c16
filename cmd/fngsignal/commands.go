package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	drepo "SentiPull/internal/domain/repository"
	"SentiPull/internal/service/feargreed"
	"SentiPull/internal/services/sentiment"
	"SentiPull/pkg/config"
	applogger "SentiPull/pkg/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fngsignal",
		Short:         "Fear & Greed signal diagnostics",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "config file path, defaults apply when empty")
	root.AddCommand(newAnalyzeCmd(), newClassifyCmd())
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.LoadWithEnv(path)
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Fetch the index history and print the signal report",
		Example: `  fngsignal analyze
  fngsignal analyze --provider alternative --limit 60 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			provider, _ := cmd.Flags().GetString("provider")
			asJSON, _ := cmd.Flags().GetBool("json")

			if provider == "" {
				provider = cfg.Source.Provider
			}
			p := drepo.Provider(provider)
			if !drepo.IsValidProvider(p) {
				return fmt.Errorf("unknown provider %q", provider)
			}
			if p == drepo.ProviderArchive {
				return fmt.Errorf("provider %q needs the archive store, use the HTTP API", provider)
			}
			if limit <= 0 {
				limit = cfg.Source.DefaultLimit
			}

			fc := feargreed.Config{
				UserAgent: cfg.Source.UserAgent,
				Timeout:   cfg.Source.Timeout,
				Attempts:  cfg.Source.Attempts,
				Backoff:   cfg.Source.Backoff,
			}
			if string(p) == cfg.Source.Provider {
				fc.BaseURL = cfg.Source.BaseURL
			}
			src, err := feargreed.New(p, fc, applogger.Nop())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Source.Timeout*time.Duration(cfg.Source.Attempts+1))
			defer cancel()

			obs, err := src.Fetch(ctx, drepo.ClampLimit(limit))
			if err != nil {
				return fmt.Errorf("fetch %s: %w", p, err)
			}
			analysis, err := sentiment.Analyze(obs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}
			writeReport(out, string(p), analysis)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "number of daily observations to fetch")
	cmd.Flags().String("provider", "", "index provider (cnn, alternative)")
	cmd.Flags().Bool("json", false, "print the analysis as JSON")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify SCORE",
		Short:   "Map a single score to its action",
		Example: `  fngsignal classify 18.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, desc, err := sentiment.ClassifyRaw(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", action, desc)
			return nil
		},
	}
}
