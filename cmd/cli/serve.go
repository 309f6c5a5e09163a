package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/config"
	"github.com/usersadmin/usersadmin/internal/daemon"
	"github.com/usersadmin/usersadmin/internal/repository"
)

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Run the users API",
	Long:              "Runs the users API backed by a local SQLite database until interrupted",
	PersistentPreRunE: preRunServerConfigE,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ServeWith(cmd, cfg)
	},
}

// ServeWith opens the database, seeds the first operator and serves until
// the command context is cancelled.
func ServeWith(cmd *cobra.Command, cfg *config.Config) error {

	if database, _ := cmd.Flags().GetString("database"); len(database) > 0 {
		cfg.Server.Database = database
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	repo, err := repository.Open(cfg.Server.Database)
	if err != nil {
		return err
	}
	defer repo.Close()

	created, err := repo.EnsureSeed(cmd.Context(), cfg.Server.Seed.Email, cfg.Server.Seed.Password)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if created {
		fmt.Printf("Created operator %s\n", cfg.Server.Seed.Email)
	}

	server := daemon.NewServer(cfg, repo)

	logrus.WithFields(logrus.Fields{
		"address":  cfg.Server.Address(),
		"database": cfg.Server.Database,
	}).Infoln("Starting users API")

	return server.Start(cmd.Context())
}

func init() {
	serveCmd.Flags().String("database", "", "SQLite database file (overrides server.database)")
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
