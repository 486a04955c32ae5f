package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/sitedash/internal/api"
	"github.com/MarkoPoloResearchLab/sitedash/internal/auth"
	"github.com/MarkoPoloResearchLab/sitedash/internal/console"
	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/storage"
)

const (
	commandUseName          = "sitedash"
	commandShortDescription = "Manage websites of the AI website builder"
	commandLongDescription  = "Sign in to the AI website builder API, then list, generate, edit and delete websites from the terminal or through the web dashboard"

	missingConfigurationMessage   = "missing required configuration"
	loggerCreationErrorMessage    = "logger"
	unexpectedArgumentsMessage    = "unexpected command arguments"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
	tokenStoreErrorMessage        = "open token store"
	invalidDurationMessage        = "invalid duration"

	flagNameAPIBaseURL     = "api-base-url"
	flagNameTokenDatabase  = "token-db"
	flagNameLogLevel       = "log-level"
	flagNameRequestTimeout = "request-timeout"

	flagUsageAPIBaseURL     = "root URL of the website builder API"
	flagUsageTokenDatabase  = "SQLite file holding the access token between commands"
	flagUsageLogLevel       = "log level (debug, info, warn, error)"
	flagUsageRequestTimeout = "transport timeout for each API request"

	environmentKeyAPIBaseURL     = "API_BASE_URL"
	environmentKeyTokenDatabase  = "TOKEN_DB"
	environmentKeyLogLevel       = "LOG_LEVEL"
	environmentKeyRequestTimeout = "REQUEST_TIMEOUT"

	defaultLogLevel              = "warn"
	defaultTokenDatabaseFileName = "token.db"
	defaultTokenDatabaseDirName  = "sitedash"
	loggerContextCloseDatabase   = "close_db"
)

var (
	errNotLoggedIn     = errors.New(dashboard.MessageLoginRequired)
	errOperationFailed = errors.New("operation failed")
)

// ClientConfig captures configuration shared by every command.
type ClientConfig struct {
	APIBaseURL     string
	TokenDatabase  string
	LogLevel       zapcore.Level
	RequestTimeout time.Duration
}

// ServerRunner serves the web dashboard until it stops.
type ServerRunner func(ctx context.Context, server *http.Server) error

// SitedashApplication constructs and executes the sitedash commands.
type SitedashApplication struct {
	configurationLoader *viper.Viper
	serverRunner        ServerRunner
}

// NewSitedashApplication creates a SitedashApplication with default dependencies.
func NewSitedashApplication() *SitedashApplication {
	return &SitedashApplication{
		configurationLoader: viper.New(),
		serverRunner:        listenAndServe,
	}
}

// WithServerRunner overrides how the serve command runs the HTTP server.
func (application *SitedashApplication) WithServerRunner(serverRunner ServerRunner) *SitedashApplication {
	application.serverRunner = serverRunner
	return application
}

// Command builds the Cobra command tree.
func (application *SitedashApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	serveCommand, serveErr := application.serveCommand()
	if serveErr != nil {
		return nil, serveErr
	}
	rootCommand.AddCommand(
		serveCommand,
		application.loginCommand(),
		application.signupCommand(),
		application.logoutCommand(),
		application.whoamiCommand(),
		application.sitesCommand(),
		application.adminCommand(),
	)
	return rootCommand, nil
}

func (application *SitedashApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.SetDefault(environmentKeyAPIBaseURL, api.DefaultBaseURL)
	application.configurationLoader.SetDefault(environmentKeyTokenDatabase, defaultTokenDatabasePath())
	application.configurationLoader.SetDefault(environmentKeyLogLevel, defaultLogLevel)
	application.configurationLoader.SetDefault(environmentKeyRequestTimeout, api.DefaultRequestTimeout.String())
	application.configurationLoader.AutomaticEnv()

	persistentFlags := command.PersistentFlags()
	persistentFlags.String(flagNameAPIBaseURL, api.DefaultBaseURL, flagUsageAPIBaseURL)
	persistentFlags.String(flagNameTokenDatabase, defaultTokenDatabasePath(), flagUsageTokenDatabase)
	persistentFlags.String(flagNameLogLevel, defaultLogLevel, flagUsageLogLevel)
	persistentFlags.String(flagNameRequestTimeout, api.DefaultRequestTimeout.String(), flagUsageRequestTimeout)

	return application.bindFlags(persistentFlags, map[string]string{
		environmentKeyAPIBaseURL:     flagNameAPIBaseURL,
		environmentKeyTokenDatabase:  flagNameTokenDatabase,
		environmentKeyLogLevel:       flagNameLogLevel,
		environmentKeyRequestTimeout: flagNameRequestTimeout,
	})
}

// bindFlags binds each flag to its configuration key and lets the environment override its default.
func (application *SitedashApplication) bindFlags(flagSet *pflag.FlagSet, flagNamesByEnvironmentKey map[string]string) error {
	for environmentKey, flagName := range flagNamesByEnvironmentKey {
		if bindErr := application.bindFlag(flagSet, environmentKey, flagName); bindErr != nil {
			return bindErr
		}
		if environmentErr := application.applyEnvironmentConfiguration(flagSet, environmentKey, flagName); environmentErr != nil {
			return environmentErr
		}
	}
	return nil
}

func (application *SitedashApplication) bindFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if bindErr := application.configurationLoader.BindPFlag(environmentKey, flag); bindErr != nil {
		return bindErr
	}

	return nil
}

func (application *SitedashApplication) applyEnvironmentConfiguration(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	environmentValue, environmentFound := os.LookupEnv(environmentKey)
	if !environmentFound {
		return nil
	}

	if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
		return fmt.Errorf("%s: %w", environmentConfigurationError, setErr)
	}

	return nil
}

func (application *SitedashApplication) clientConfiguration() (ClientConfig, error) {
	apiBaseURL := strings.TrimSpace(application.configurationLoader.GetString(environmentKeyAPIBaseURL))
	if apiBaseURL == "" {
		return ClientConfig{}, fmt.Errorf("%s: %s", missingConfigurationMessage, flagNameAPIBaseURL)
	}

	logLevel, levelErr := zapcore.ParseLevel(strings.TrimSpace(application.configurationLoader.GetString(environmentKeyLogLevel)))
	if levelErr != nil {
		return ClientConfig{}, fmt.Errorf("%s: %w", flagNameLogLevel, levelErr)
	}
	requestTimeout, timeoutErr := time.ParseDuration(strings.TrimSpace(application.configurationLoader.GetString(environmentKeyRequestTimeout)))
	if timeoutErr != nil || requestTimeout <= 0 {
		return ClientConfig{}, fmt.Errorf("%s: %s %q", flagNameRequestTimeout, invalidDurationMessage, application.configurationLoader.GetString(environmentKeyRequestTimeout))
	}

	return ClientConfig{
		APIBaseURL:     apiBaseURL,
		TokenDatabase:  strings.TrimSpace(application.configurationLoader.GetString(environmentKeyTokenDatabase)),
		LogLevel:       logLevel,
		RequestTimeout: requestTimeout,
	}, nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}
	logger, buildErr := loggerConfig.Build()
	if buildErr != nil {
		return nil, fmt.Errorf("%s: %w", loggerCreationErrorMessage, buildErr)
	}
	return logger, nil
}

func newAPIClient(configuration ClientConfig, logger *zap.Logger) *api.Client {
	return api.NewClient(configuration.APIBaseURL, &http.Client{Timeout: configuration.RequestTimeout}, logger)
}

// commandSession is everything one CLI command needs to drive the controller.
type commandSession struct {
	controller *dashboard.Controller
	navigator  *console.Navigator
	logger     *zap.Logger
	database   *gorm.DB
}

func (session *commandSession) Close() {
	defer func() {
		_ = session.logger.Sync()
	}()
	sqlDatabase, databaseErr := session.database.DB()
	if databaseErr != nil {
		session.logger.Warn(loggerContextCloseDatabase, zap.Error(databaseErr))
		return
	}
	if closeErr := sqlDatabase.Close(); closeErr != nil {
		session.logger.Warn(loggerContextCloseDatabase, zap.Error(closeErr))
	}
}

// openSession validates configuration, then opens the token store and wires a controller whose
// notices and prompts go through the command's streams.
func (application *SitedashApplication) openSession(command *cobra.Command, assumeYes bool) (*commandSession, error) {
	configuration, configurationErr := application.clientConfiguration()
	if configurationErr != nil {
		return nil, configurationErr
	}
	if configuration.TokenDatabase == "" {
		return nil, fmt.Errorf("%s: %s", missingConfigurationMessage, flagNameTokenDatabase)
	}
	command.SilenceUsage = true

	logger, loggerErr := newLogger(configuration.LogLevel)
	if loggerErr != nil {
		return nil, loggerErr
	}

	databaseConfig, fileErr := storage.FileConfig(configuration.TokenDatabase)
	if fileErr != nil {
		return nil, fmt.Errorf("%s: %w", tokenStoreErrorMessage, fileErr)
	}
	database, openErr := storage.OpenDatabase(databaseConfig)
	if openErr != nil {
		return nil, fmt.Errorf("%s: %w", tokenStoreErrorMessage, openErr)
	}
	if migrateErr := storage.AutoMigrate(database); migrateErr != nil {
		return nil, fmt.Errorf("%s: %w", tokenStoreErrorMessage, migrateErr)
	}
	tokenStore, storeErr := auth.NewDatabaseTokenStore(database)
	if storeErr != nil {
		return nil, fmt.Errorf("%s: %w", tokenStoreErrorMessage, storeErr)
	}

	navigator := console.NewNavigator(command.OutOrStdout())
	controller := dashboard.NewController(dashboard.Dependencies{
		Client:     newAPIClient(configuration, logger),
		TokenStore: tokenStore,
		Notifier:   console.NewNotifier(command.OutOrStdout()),
		Confirmer:  console.NewConfirmer(command.InOrStdin(), command.OutOrStdout(), assumeYes),
		Navigator:  navigator,
		Logger:     logger,
	})
	return &commandSession{controller: controller, navigator: navigator, logger: logger, database: database}, nil
}

// requireLogin loads the stored session and fails with the login prompt when there is no token.
func (session *commandSession) requireLogin(command *cobra.Command) (dashboard.Session, error) {
	current := session.controller.LoadSession(command.Context())
	if !current.HasToken {
		return current, errNotLoggedIn
	}
	return current, nil
}

func failedOutcomeError(outcome dashboard.Outcome) error {
	if outcome.Message == "" {
		return errOperationFailed
	}
	return fmt.Errorf("%w: %s", errOperationFailed, outcome.Message)
}

func rejectArguments(arguments []string) error {
	if len(arguments) > 0 {
		return fmt.Errorf("%s: %s", unexpectedArgumentsMessage, strings.Join(arguments, " "))
	}
	return nil
}

func defaultTokenDatabasePath() string {
	configDirectory, directoryErr := os.UserConfigDir()
	if directoryErr != nil {
		return ""
	}
	return filepath.Join(configDirectory, defaultTokenDatabaseDirName, defaultTokenDatabaseFileName)
}

func main() {
	application := NewSitedashApplication()
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", commandInitializationFailure, commandErr)
		os.Exit(1)
	}

	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	executeErr := rootCommand.ExecuteContext(signalContext)
	stopSignals()
	if executeErr != nil {
		os.Exit(1)
	}
}
