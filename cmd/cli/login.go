package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/console"
	"github.com/usersadmin/usersadmin/internal/forms"
	"github.com/usersadmin/usersadmin/internal/style"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the users API",
	Long:  "Logs in with an email and password and stores the session cookie for later commands",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if len(password) == 0 {
		if !isInteractive() {
			return fmt.Errorf("--password is required without a terminal")
		}
		return interactiveLogin(cmd.Context(), email)
	}

	return login(cmd.Context(), email, password)
}

// interactiveLogin asks for credentials until a login succeeds or the
// operator aborts.
func interactiveLogin(ctx context.Context, email string) error {
	for {
		var password string
		if err := console.PromptCredentials(&email, &password); err != nil {
			return err
		}

		err := login(ctx, email, password)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func login(ctx context.Context, email, password string) error {

	email = strings.TrimSpace(email)
	if errs := forms.LoginSchema().Validate(map[string]string{
		forms.FieldEmail:    email,
		forms.FieldPassword: password,
	}); !errs.Empty() {
		return errs
	}

	identity, err := sessionStore.Login(ctx, email, password)
	if err != nil {
		fmt.Println(style.ErrorPrefix, style.Error.Render(err.Error()))
		return err
	}

	fmt.Println()
	fmt.Println(style.SuccessPrefix, style.Success.Render("Login successful!"))
	fmt.Printf("Signed in as %s on %s\n", style.Bold.Render(identity.Email), cfg.GetAPIEndpoint())
	fmt.Println()

	return nil
}

func init() {
	loginCmd.Flags().String("email", "", "Email address to log in with")
	loginCmd.Flags().String("password", "", "Password (prompted for when omitted)")

	// Add the command to the root
	rootCmd.AddCommand(loginCmd)
}
