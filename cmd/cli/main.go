package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/usersadmin/usersadmin/internal/client"
	"github.com/usersadmin/usersadmin/internal/common"
	"github.com/usersadmin/usersadmin/internal/config"
	"github.com/usersadmin/usersadmin/internal/console"
	"github.com/usersadmin/usersadmin/internal/router"
	"github.com/usersadmin/usersadmin/internal/sessions"
	"github.com/usersadmin/usersadmin/internal/store"
	"github.com/usersadmin/usersadmin/internal/style"
	"golang.org/x/term"
)

// Global configuration instance
var cfg *config.Config
var sessionManager *sessions.SessionManager

// Client side wiring, built once per invocation by preRunClientConfigE
var (
	apiClient    *client.Client
	sessionStore *store.SessionStore
	userStore    *store.UserStore
)

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunClientConfigE(cmd *cobra.Command, _ []string) error {
	return preRunConfigE(cmd, config.ModeClient)
}

func preRunServerConfigE(cmd *cobra.Command, _ []string) error {
	return preRunConfigE(cmd, config.ModeServer)
}

func preRunConfigE(cmd *cobra.Command, mode config.Mode) error {
	// Load configuration before any command runs
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.SetMode(mode)

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if mode != config.ModeClient {
		return nil
	}

	// Get the api server override from the flag
	apiServer, err := cmd.Flags().GetString("api-server")
	if err == nil && len(apiServer) > 0 {
		if err := cfg.SetAPIEndpoint(apiServer); err != nil {
			return fmt.Errorf("failed to set api server: %w", err)
		}
	}

	jar, err := newCookieJar()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	apiClient = client.New(
		cfg.GetAPIEndpoint(),
		client.WithTimeout(cfg.API.Timeout),
		client.WithCookieJar(jar),
	)

	sessionStore = store.NewSessionStore(apiClient)
	userStore = store.NewUserStore(apiClient)

	logrus.WithFields(logrus.Fields{
		"endpoint": cfg.GetAPIEndpoint(),
		"persist":  cfg.Sessions.Persist,
	}).Debugln("Client configured")

	return nil
}

// newCookieJar restores the persisted session for the configured API host,
// or returns an in-memory jar when persistence is off.
func newCookieJar() (http.CookieJar, error) {
	if !cfg.Sessions.Persist {
		return cookiejar.New(nil)
	}

	sessionManager = sessions.NewSessionManager(cfg.GetSessionsPath())
	if err := sessionManager.Load(cfg.GetAPIHostname()); err != nil {
		logrus.WithError(err).Warnln("Failed to load stored session")
	}

	return sessions.NewPersistentJar(sessionManager, cfg.GetAPIEndpoint())
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// requireSessionE makes sure a session exists before a one-shot command
// runs, offering to log in when attached to a terminal.
func requireSessionE(cmd *cobra.Command, _ []string) error {

	ctx := cmd.Context()

	_, err := sessionStore.CheckSession(ctx)
	if err == nil {
		return nil
	}

	logrus.WithError(err).Debugln("No active session")

	if !isInteractive() {
		return config.ErrNoActiveSession
	}

	return promptAndLogin(ctx)
}

// promptAndLogin prompts the user if they want to login and handles the login process
func promptAndLogin(ctx context.Context) error {
	fmt.Println()
	fmt.Println(style.Title.Render("Authentication Required"))
	fmt.Printf("No active session found for %s.\n", cfg.GetAPIEndpoint())
	fmt.Println()

	var shouldLogin bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Would you like to login now?").
				Value(&shouldLogin),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("login prompt cancelled: %w", err)
	}

	if !shouldLogin {
		return config.ErrNoActiveSession
	}

	return interactiveLogin(ctx, "")
}

var rootCmd = &cobra.Command{
	Use:   "usersadmin",
	Short: "Administer the user accounts of a users API",
	Long: `usersadmin manages user accounts held by a users API: log in, then list,
create, edit and delete users.

Run without a subcommand to open the interactive console. The session cookie is
kept per API host so separate invocations share a login.`,
	PersistentPreRunE: preRunClientConfigE,
	RunE:              runConsole,
	SilenceUsage:      true,
}

func init() {

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/usersadmin/config.yaml)")
	rootCmd.PersistentFlags().String("api-server", "", "Override the users API URL (e.g., http://localhost:5225)")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}

// Execute runs the root command with a context cancelled on interrupt.
func Execute() error {
	ctx, cleanup := common.WithInterrupt(context.Background())
	defer cleanup()

	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

// startPath is where the console opens.
func startPath(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("path")
	if err != nil || len(path) == 0 {
		return router.HomePath
	}
	return path
}

func runConsole(cmd *cobra.Command, _ []string) error {

	if !isInteractive() {
		return fmt.Errorf("the console needs a terminal, use the users subcommands instead")
	}

	app := console.NewDefaultApp(sessionStore, userStore, os.Stdout)

	return app.Run(cmd.Context(), startPath(cmd))
}
