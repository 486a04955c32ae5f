package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/httpapi"
)

const (
	serveCommandUse              = "serve"
	serveCommandShortDescription = "Run the web dashboard"
	serveCommandLongDescription  = "Serve the server-rendered dashboard; the access token lives in a signed cookie session"

	flagNameApplicationAddress = "app-addr"
	flagNameSessionSecret      = "session-secret"
	flagNameAllowedOrigins     = "allowed-origins"
	flagNameLoginRate          = "login-rate-per-minute"
	flagNameSecureCookies      = "secure-cookies"

	flagUsageApplicationAddress = "address for the HTTP server to listen on"
	flagUsageSessionSecret      = "secret of at least 32 bytes used to sign and encrypt session cookies"
	flagUsageAllowedOrigins     = "comma separated origins allowed to read the JSON view"
	flagUsageLoginRate          = "login and signup attempts allowed per client address each minute"
	flagUsageSecureCookies      = "mark session cookies Secure (serve behind HTTPS)"

	environmentKeyApplicationAddress = "APP_ADDR"
	environmentKeySessionSecret      = "SESSION_SECRET"
	environmentKeyAllowedOrigins     = "ALLOWED_ORIGINS"
	environmentKeyLoginRate          = "LOGIN_RATE_PER_MINUTE"
	environmentKeySecureCookies      = "SECURE_COOKIES"

	defaultApplicationAddress = ":8080"
	allowedOriginsSeparator   = ","
	readHeaderTimeout         = 5 * time.Second
	shortSessionSecretMessage = "must be at least 32 bytes"
	minimumSessionSecretBytes = 32

	logEventListening     = "listening"
	logFieldAddress       = "addr"
	loggerContextServer   = "server"
	loggerContextHandlers = "handlers"
)

// ServerConfig captures configuration needed to run the web dashboard.
type ServerConfig struct {
	ApplicationAddress string
	SessionSecret      string
	AllowedOrigins     []string
	LoginRatePerMinute int
	SecureCookies      bool
}

func (application *SitedashApplication) serveCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   serveCommandUse,
		Short: serveCommandShortDescription,
		Long:  serveCommandLongDescription,
		RunE:  application.runServe,
	}

	application.configurationLoader.SetDefault(environmentKeyApplicationAddress, defaultApplicationAddress)
	application.configurationLoader.SetDefault(environmentKeySessionSecret, "")
	application.configurationLoader.SetDefault(environmentKeyAllowedOrigins, "")
	application.configurationLoader.SetDefault(environmentKeyLoginRate, httpapi.DefaultLoginAttemptsPerMinute)
	application.configurationLoader.SetDefault(environmentKeySecureCookies, false)

	commandFlags := command.Flags()
	commandFlags.String(flagNameApplicationAddress, defaultApplicationAddress, flagUsageApplicationAddress)
	commandFlags.String(flagNameSessionSecret, "", flagUsageSessionSecret)
	commandFlags.String(flagNameAllowedOrigins, "", flagUsageAllowedOrigins)
	commandFlags.Int(flagNameLoginRate, httpapi.DefaultLoginAttemptsPerMinute, flagUsageLoginRate)
	commandFlags.Bool(flagNameSecureCookies, false, flagUsageSecureCookies)

	if bindErr := application.bindFlags(commandFlags, map[string]string{
		environmentKeyApplicationAddress: flagNameApplicationAddress,
		environmentKeySessionSecret:      flagNameSessionSecret,
		environmentKeyAllowedOrigins:     flagNameAllowedOrigins,
		environmentKeyLoginRate:          flagNameLoginRate,
		environmentKeySecureCookies:      flagNameSecureCookies,
	}); bindErr != nil {
		return nil, bindErr
	}

	if markErr := command.MarkFlagRequired(flagNameSessionSecret); markErr != nil {
		return nil, markErr
	}

	return command, nil
}

func (application *SitedashApplication) runServe(command *cobra.Command, arguments []string) error {
	if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
		return argumentsErr
	}

	serverConfig := ServerConfig{
		ApplicationAddress: application.configurationLoader.GetString(environmentKeyApplicationAddress),
		SessionSecret:      strings.TrimSpace(application.configurationLoader.GetString(environmentKeySessionSecret)),
		AllowedOrigins:     splitAllowedOrigins(application.configurationLoader.GetString(environmentKeyAllowedOrigins)),
		LoginRatePerMinute: application.configurationLoader.GetInt(environmentKeyLoginRate),
		SecureCookies:      application.configurationLoader.GetBool(environmentKeySecureCookies),
	}
	if validationErr := application.ensureRequiredConfiguration(serverConfig); validationErr != nil {
		return validationErr
	}
	clientConfig, clientConfigErr := application.clientConfiguration()
	if clientConfigErr != nil {
		return clientConfigErr
	}
	command.SilenceUsage = true

	logger, loggerErr := newLogger(clientConfig.LogLevel)
	if loggerErr != nil {
		return loggerErr
	}
	defer func() {
		_ = logger.Sync()
	}()

	router, routerErr := newRouter(serverConfig, clientConfig, logger)
	if routerErr != nil {
		logger.Error(loggerContextHandlers, zap.Error(routerErr))
		return routerErr
	}

	httpServer := &http.Server{
		Addr:              serverConfig.ApplicationAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Info(logEventListening, zap.String(logFieldAddress, serverConfig.ApplicationAddress))
	if serveErr := application.serverRunner(command.Context(), httpServer); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		logger.Error(loggerContextServer, zap.Error(serveErr))
		return serveErr
	}

	return nil
}

func (application *SitedashApplication) ensureRequiredConfiguration(configuration ServerConfig) error {
	if configuration.SessionSecret == "" {
		return fmt.Errorf("%s: %s", missingConfigurationMessage, flagNameSessionSecret)
	}
	if len(configuration.SessionSecret) < minimumSessionSecretBytes {
		return fmt.Errorf("%s %s", flagNameSessionSecret, shortSessionSecretMessage)
	}
	return nil
}

func newRouter(serverConfig ServerConfig, clientConfig ClientConfig, logger *zap.Logger) (*gin.Engine, error) {
	sessions, sessionsErr := httpapi.NewSessionManager(httpapi.SessionConfig{
		Secret: []byte(serverConfig.SessionSecret),
		Secure: serverConfig.SecureCookies,
	}, logger)
	if sessionsErr != nil {
		return nil, sessionsErr
	}
	webHandlers, handlersErr := httpapi.NewWebHandlers(httpapi.WebConfig{
		Client:           newAPIClient(clientConfig, logger),
		Sessions:         sessions,
		LoginRateLimiter: httpapi.NewLoginRateLimiter(serverConfig.LoginRatePerMinute, logger),
		Logger:           logger,
	})
	if handlersErr != nil {
		return nil, handlersErr
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))
	webHandlers.RegisterRoutes(router)
	webHandlers.RegisterViewRoute(router, serverConfig.AllowedOrigins)
	return router, nil
}

func splitAllowedOrigins(rawOrigins string) []string {
	var origins []string
	for _, origin := range strings.Split(rawOrigins, allowedOriginsSeparator) {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func listenAndServe(ctx context.Context, server *http.Server) error {
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownContext, cancel := context.WithTimeout(context.Background(), readHeaderTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownContext)
	}()
	serveErr := server.ListenAndServe()
	if errors.Is(serveErr, http.ErrServerClosed) {
		<-shutdownDone
	}
	return serveErr
}
