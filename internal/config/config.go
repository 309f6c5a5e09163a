package config

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/usersadmin/usersadmin/internal/common"
)

const DefaultAPIEndpoint = "http://localhost:5225"

var ErrNoActiveSession = fmt.Errorf(
	"you must login first. No valid session found for the users API")

func DefaultConfig() *Config {

	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		logrus.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		// .env file not found, that's okay - continue with other sources
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/usersadmin")

	if home, err := userHomeDir(); err == nil {
		v.AddConfigPath(home + "/.config/usersadmin")
	}

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	setDefaults(v)

	v.SetEnvPrefix("USERSADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
}

// bindEnvironmentVariables binds the documented environment variables.
// AutomaticEnv only resolves keys viper already knows about, nested slices
// and secrets are bound explicitly.
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("api.endpoint", "USERSADMIN_API_ENDPOINT")
	v.BindEnv("api.timeout", "USERSADMIN_API_TIMEOUT")

	v.BindEnv("sessions.path", "USERSADMIN_SESSIONS_PATH")

	v.BindEnv("logging.level", "USERSADMIN_LOGGING_LEVEL")
	v.BindEnv("logging.format", "USERSADMIN_LOGGING_FORMAT")

	v.BindEnv("server.host", "USERSADMIN_SERVER_HOST")
	v.BindEnv("server.port", "USERSADMIN_SERVER_PORT")
	v.BindEnv("server.secret", "USERSADMIN_SERVER_SECRET")
	v.BindEnv("server.database", "USERSADMIN_SERVER_DATABASE")
	v.BindEnv("server.seed.email", "USERSADMIN_SERVER_SEED_EMAIL")
	v.BindEnv("server.seed.password", "USERSADMIN_SERVER_SEED_PASSWORD")
	v.BindEnv("server.security.cors.allowed_origins", "USERSADMIN_SERVER_CORS_ALLOWED_ORIGINS")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setupLogging configures logrus from the logging section
func setupLogging(config *Config, v *viper.Viper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	if logrusLevel >= logrus.DebugLevel {
		for key, value := range v.AllSettings() {
			if strings.Contains(key, "secret") || strings.Contains(key, "seed") {
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, value)
		}
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {

	// Users API the console talks to
	v.SetDefault("api.endpoint", DefaultAPIEndpoint)
	v.SetDefault("api.timeout", "30s")

	// Persisted session cookies, one file per API host
	v.SetDefault("sessions.path", "~/.config/usersadmin/sessions")
	v.SetDefault("sessions.persist", true)

	// Reference backend
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5225)
	v.SetDefault("server.secret", common.DefaultServerSecret)
	v.SetDefault("server.database", "usersadmin.db")
	v.SetDefault("server.secure", false)

	v.SetDefault("server.limits.read_timeout", "30s")
	v.SetDefault("server.limits.write_timeout", "30s")
	v.SetDefault("server.limits.idle_timeout", "120s")
	v.SetDefault("server.limits.login_per_second", 1.0)
	v.SetDefault("server.limits.login_burst", 5)

	v.SetDefault("server.security.cors.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.security.cors.max_age", "12h")

	v.SetDefault("server.seed.email", "admin@example.com")
	v.SetDefault("server.seed.password", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

func userHomeDir() (string, error) {
	if home := os.Getenv("HOME"); len(home) > 0 {
		return home, nil
	}
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return usr.HomeDir, nil
}
