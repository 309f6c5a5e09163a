package cli

import (
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive console",
	Long:  "Opens the interactive console. Protected screens check the stored session first and fall back to the login screen.",
	RunE:  runConsole,
}

func init() {
	consoleCmd.Flags().String("path", "", "Screen to open, e.g. /home or /user/create")
	rootCmd.Flags().String("path", "", "Screen to open, e.g. /home or /user/create")

	rootCmd.AddCommand(consoleCmd)
}
