package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/logger"
	"github.com/spigell/role-readiness/internal/readiness"
)

var summaryCmd = &cobra.Command{
	Use:   "summary FILE",
	Short: "Print one summary line per role from a saved assessment JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		assessments, err := readAssessments(args[0])
		if err != nil {
			logger.Fatal("reading assessment", zap.String("file", args[0]), zap.Error(err))
		}

		if err := printSummaries(cmd.OutOrStdout(), assessments); err != nil {
			logger.Fatal("writing summary", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func readAssessments(path string) ([]readiness.RoleAssessment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return readiness.DecodeAssessments(doc)
}
