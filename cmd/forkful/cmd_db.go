package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forkful/forkful/config"
	"github.com/forkful/forkful/database/migrations"
	"github.com/forkful/forkful/database/seeders"
	"github.com/forkful/forkful/pkg/database"
)

// bootDB loads config and opens the Mongo connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// forkful migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create indexes and run pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		fmt.Println("Running migrations…")
		return migrations.RunAll(ctx, database.DB)
	},
}

// forkful seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, database.DB)
	},
}
