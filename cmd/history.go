package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/history"
	"github.com/spigell/role-readiness/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded assessments",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()

		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		// Reading works even when recording is switched off.
		store, err := history.Open(config.History.Path)
		if err != nil {
			logger.Fatal("opening history", zap.Error(err))
		}
		defer store.Close()

		recent, _ := cmd.Flags().GetInt("recent")
		role, _ := cmd.Flags().GetString("role")
		stats, _ := cmd.Flags().GetBool("stats")

		var out any
		switch {
		case stats:
			out, err = store.Stats(ctx)
		case role != "":
			out, err = store.ByRole(ctx, role)
		default:
			out, err = store.Recent(ctx, recent)
		}
		if err != nil {
			logger.Fatal("querying history", zap.Error(err))
		}

		pretty, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			logger.Fatal("marshal history", zap.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("recent", "n", 5, "show the last N assessments")
	historyCmd.Flags().StringP("role", "r", "", "show assessments for a target role (case-insensitive)")
	historyCmd.Flags().Bool("stats", false, "show summary statistics")
}
