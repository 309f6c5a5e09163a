package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/style"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session with the users API",
	Long:  "Asks the server to drop the session and removes the stored session cookie",
	RunE: func(cmd *cobra.Command, args []string) error {

		// The server side session is best effort; the local one always goes.
		if err := apiClient.Logout(cmd.Context()); err != nil {
			logrus.WithError(err).Debugln("Server logout failed")
		}

		sessionStore.Logout()

		fmt.Println(style.SuccessPrefix, "Logged out of", cfg.GetAPIEndpoint())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
