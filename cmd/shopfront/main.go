// Command shopfront runs the shop API and its maintenance tasks.
//
//	shopfront serve            # start the HTTP (and gRPC health) server
//	shopfront migrate          # run pending migrations
//	shopfront migrate:rollback
//	shopfront migrate:status
//	shopfront seed             # bootstrap the first admin
//	shopfront route:list       # list API routes
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/shopfront/database/migrations"
	_ "github.com/shashiranjanraj/shopfront/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shopfront",
	Short:         "shopfront e-commerce API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
