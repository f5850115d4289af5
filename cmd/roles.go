package cmd

import (
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/catalog"
	"github.com/spigell/role-readiness/internal/logger"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List catalog roles",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		cat, err := loadCatalog(config)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}

		if err := printRoles(cmd.OutOrStdout(), cat); err != nil {
			logger.Fatal("writing roles", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func printRoles(w io.Writer, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ROLE\tMUST\tNICE\n")

	for _, role := range cat.Roles() {
		reqs, _ := cat.Requirements(role)
		must, nice := 0, 0
		for _, r := range reqs {
			if r.Importance == catalog.Must {
				must++
			} else {
				nice++
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\n", role, must, nice)
	}

	fmt.Fprintf(tw, "\ncatalog version %s\n", cat.Version())
	return tw.Flush()
}
