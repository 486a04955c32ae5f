package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	flagNameEmail    = "email"
	flagNamePassword = "password"

	flagUsageEmail    = "account email"
	flagUsagePassword = "account password"

	environmentKeyPassword = "SITEDASH_PASSWORD"

	whoamiRoleLinePattern   = "role: %s\n"
	whoamiUserIDLinePattern = "user: %s\n"
	whoamiUnknownValue      = "unknown"
	loggedOutLine           = "Logged out.\n"
)

type credentials struct {
	email    string
	password string
}

func addCredentialFlags(command *cobra.Command) {
	command.Flags().String(flagNameEmail, "", flagUsageEmail)
	command.Flags().String(flagNamePassword, "", flagUsagePassword+" (or "+environmentKeyPassword+")")
}

// readCredentials prefers the password flag and falls back to the environment so the secret can
// stay out of shell history.
func readCredentials(command *cobra.Command) (credentials, error) {
	email, _ := command.Flags().GetString(flagNameEmail)
	password, _ := command.Flags().GetString(flagNamePassword)
	if password == "" {
		password = os.Getenv(environmentKeyPassword)
	}

	var missingParameters []string
	if strings.TrimSpace(email) == "" {
		missingParameters = append(missingParameters, flagNameEmail)
	}
	if password == "" {
		missingParameters = append(missingParameters, flagNamePassword)
	}
	if len(missingParameters) > 0 {
		return credentials{}, fmt.Errorf("%s: %s", missingConfigurationMessage, strings.Join(missingParameters, ", "))
	}
	return credentials{email: strings.TrimSpace(email), password: password}, nil
}

func (application *SitedashApplication) loginCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			accountCredentials, credentialsErr := readCredentials(command)
			if credentialsErr != nil {
				return credentialsErr
			}
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			outcome := session.controller.Login(command.Context(), accountCredentials.email, accountCredentials.password)
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			printNotice(command, notice.KindSuccess, outcome.Message)
			return nil
		},
	}
	addCredentialFlags(command)
	return command
}

func (application *SitedashApplication) signupCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			accountCredentials, credentialsErr := readCredentials(command)
			if credentialsErr != nil {
				return credentialsErr
			}
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			outcome := session.controller.Signup(command.Context(), accountCredentials.email, accountCredentials.password)
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			printNotice(command, notice.KindSuccess, outcome.Message)
			return nil
		},
	}
	addCredentialFlags(command)
	return command
}

func (application *SitedashApplication) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			session.controller.Logout(command.Context())
			fmt.Fprint(command.OutOrStdout(), loggedOutLine)
			return nil
		},
	}
}

// whoamiCommand prints the unverified claims of the stored token without contacting the API.
func (application *SitedashApplication) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the role and account id carried by the stored token",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			current, loginErr := session.requireLogin(command)
			if loginErr != nil {
				return loginErr
			}
			role := string(current.Role)
			if !current.HasRole {
				role = whoamiUnknownValue
			}
			userID := current.UserID
			if userID == "" {
				userID = whoamiUnknownValue
			}
			fmt.Fprintf(command.OutOrStdout(), whoamiRoleLinePattern, role)
			fmt.Fprintf(command.OutOrStdout(), whoamiUserIDLinePattern, userID)
			return nil
		},
	}
}
