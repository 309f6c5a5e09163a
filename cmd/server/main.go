package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/cmd/cli"
	"github.com/usersadmin/usersadmin/internal/common"
	"github.com/usersadmin/usersadmin/internal/config"
)

var (
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "usersadmin-server",
	Short: "Start the users API",
	Long: `Start the users API.

If no config file is specified, the server will look for config files in the following locations:
  - ./config.yaml
  - ./config/config.yaml
  - /etc/usersadmin/config.yaml
  - ~/.config/usersadmin/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}
		cfg.SetMode(config.ModeServer)

		return cli.ServeWith(cmd, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the configuration file (optional)")
	rootCmd.Flags().String("database", "", "SQLite database file (overrides server.database)")
	rootCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
}

func main() {
	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatalf("Failed to execute command: %v", err)
	}
}
