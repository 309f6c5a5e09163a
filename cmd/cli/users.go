package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/console"
	"github.com/usersadmin/usersadmin/internal/models"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/style"
)

var usersCmd = &cobra.Command{
	Use:               "users",
	Short:             "Manage user accounts",
	PersistentPreRunE: preRunUsersE,
}

// preRunUsersE chains the root configuration with the session check.
func preRunUsersE(cmd *cobra.Command, args []string) error {
	if err := preRunClientConfigE(cmd, args); err != nil {
		return err
	}
	return requireSessionE(cmd, args)
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {

		var users []models.User
		var err error

		// Searches go straight to the API and leave the cached collection alone
		if query, _ := cmd.Flags().GetString("search"); len(strings.TrimSpace(query)) > 0 {
			users, err = apiClient.SearchUsers(cmd.Context(), query)
		} else {
			users, err = userStore.FetchAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(users)
		}

		if len(users) == 0 {
			fmt.Println(style.Info.Render("No users found"))
			return nil
		}

		fmt.Println(renderUsersTable(users))
		fmt.Println(style.Dim.Render(fmt.Sprintf("%d user(s)", len(users))))
		return nil
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a single user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		user, err := userStore.FetchOne(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(user)
		}

		printUser(user)
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user interactively",
	RunE: func(cmd *cobra.Command, args []string) error {

		if !isInteractive() {
			return fmt.Errorf("creating a user needs a terminal")
		}

		view := console.NewCreateView(userStore, console.NewNotifier())
		nav, err := view.Show(cmd.Context(), router.New().Resolve(router.CreateUserPath, true))
		if err != nil {
			return err
		}
		if nav.To != router.HomePath {
			return errors.New(models.MessageCreateFailed)
		}

		fmt.Println(style.SuccessPrefix, style.Success.Render("User created"))
		return nil
	},
}

var usersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a user interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		if !isInteractive() {
			return fmt.Errorf("editing a user needs a terminal")
		}

		routes := router.New()
		route := routes.Resolve(routes.EditPath(args[0]), true)

		view := console.NewEditView(userStore, console.NewNotifier())
		nav, err := view.Show(cmd.Context(), route)
		if err != nil {
			return err
		}
		if nav.To != router.HomePath {
			return errors.New(models.MessageUpdateAborted)
		}

		fmt.Println(style.SuccessPrefix, style.Success.Render("User updated"))
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		id := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		if !yes {
			if !isInteractive() {
				return fmt.Errorf("refusing to delete %s without --yes", id)
			}

			user, err := userStore.FetchOne(cmd.Context(), id)
			if err != nil {
				return err
			}

			var confirmed bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %s?", user.GetName())).
						Description(fmt.Sprintf("%s will be removed permanently.", user.Email)).
						Value(&confirmed),
				),
			)

			if err := form.Run(); err != nil {
				return err
			}

			if !confirmed {
				fmt.Println(style.Info.Render("Deletion cancelled"))
				return nil
			}
		}

		if err := userStore.DeleteByID(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Println(style.SuccessPrefix, style.Success.Render("Deleted user "+id))
		return nil
	},
}

func renderUsersTable(users []models.User) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Dim).
		Headers("ID", "FULL NAME", "EMAIL", "TELEPHONE", "EMPLOYMENT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return style.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, user := range users {
		t.Row(user.ID, user.GetName(), user.Email, user.Telephone, user.Employment.Label())
	}

	return t.String()
}

func printUser(user *models.User) {
	agreement := style.Expired.Render("not accepted")
	if user.HasAgreed() {
		agreement = style.Active.Render("accepted")
	}

	fmt.Println(style.Header.Render(user.GetName()))
	fmt.Println()
	fmt.Printf("  ID:         %s\n", user.ID)
	fmt.Printf("  Name:       %s\n", user.Name)
	fmt.Printf("  Surname:    %s\n", user.SurName)
	fmt.Printf("  Email:      %s\n", user.Email)
	fmt.Printf("  Telephone:  %s\n", valueOrDash(user.Telephone))
	fmt.Printf("  Employment: %s\n", style.EmploymentBadge(string(user.Employment), user.Employment.Label()))
	fmt.Printf("  Agreement:  %s\n", agreement)
}

func valueOrDash(value string) string {
	if len(value) == 0 {
		return style.Dim.Render("-")
	}
	return value
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func init() {
	usersListCmd.Flags().Bool("json", false, "Print JSON instead of a table")
	usersListCmd.Flags().StringP("search", "s", "", "Only list users matching a free text query")
	usersShowCmd.Flags().Bool("json", false, "Print JSON")
	usersDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersEditCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	rootCmd.AddCommand(usersCmd)
}
