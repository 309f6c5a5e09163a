package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/config"
	"github.com/usersadmin/usersadmin/internal/style"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in operator",
	RunE: func(cmd *cobra.Command, args []string) error {

		identity, err := sessionStore.CheckSession(cmd.Context())
		if err != nil {
			fmt.Println(style.Expired.Render("NOT LOGGED IN"), style.Dim.Render(cfg.GetAPIEndpoint()))
			return config.ErrNoActiveSession
		}

		fmt.Println(style.Header.Render("Current Session"))
		fmt.Println()
		fmt.Printf("  Email:   %s\n", style.Bold.Render(identity.Email))
		fmt.Printf("  ID:      %s\n", identity.ID)
		fmt.Printf("  Server:  %s\n", cfg.GetAPIEndpoint())
		fmt.Printf("  Status:  %s\n", style.Active.Render("ACTIVE"))

		if sessionManager != nil {
			server, err := sessionManager.GetLoginServer(cfg.GetAPIHostname())
			if err == nil {
				for _, cookie := range server.GetCookies(time.Now()) {
					if cookie.Expires.IsZero() {
						continue
					}
					fmt.Printf("  Expires: %s (%s)\n",
						cookie.Expires.Format("2006-01-02 15:04:05"),
						formatDuration(time.Until(cookie.Expires)))
				}
			}
		}

		return nil
	},
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "expired"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
