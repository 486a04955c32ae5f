package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	usersHeaderLine    = "ID\tEMAIL\tROLE\tCREATED\tLAST LOGIN\n"
	usersRowPattern    = "%s\t%s\t%s\t%s\t%s\n"
	selfMarker         = " (you)"
	unknownRoleMessage = "unknown role %q, expected one of: %s"
)

func printUsers(command *cobra.Command, users dashboard.UserList) error {
	if users.IsError {
		return fmt.Errorf("%w: %s", errOperationFailed, users.Message)
	}
	if len(users.Rows) == 0 {
		printNotice(command, notice.KindInfo, users.Message)
		return nil
	}

	writer := tabwriter.NewWriter(command.OutOrStdout(), tabwriterMinWidth, tabwriterTabWidth, tabwriterPadding, tabwriterPadChar, 0)
	fmt.Fprint(writer, usersHeaderLine)
	for _, row := range users.Rows {
		email := row.Email
		if row.IsSelf {
			email += selfMarker
		}
		fmt.Fprintf(writer, usersRowPattern, row.ID, email, row.Role, row.CreatedAt, row.LastLogin)
	}
	return writer.Flush()
}

func (application *SitedashApplication) adminCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "admin",
		Short: "Manage accounts (Admin only)",
	}
	command.AddCommand(
		application.adminUsersCommand(),
		application.adminAssignRoleCommand(),
		application.adminDeleteUserCommand(),
	)
	return command
}

func (application *SitedashApplication) adminUsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List every account",
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
			return printUsers(command, session.controller.ListUsers(command.Context(), current))
		},
	}
}

func (application *SitedashApplication) adminAssignRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-role <user-id> <role>",
		Short: "Change the role of another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			role := model.Role(arguments[1])
			if !role.Known() {
				return fmt.Errorf(unknownRoleMessage, arguments[1], joinRoles(model.AssignableRoles))
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
			outcome := session.controller.AssignRole(command.Context(), current, arguments[0], role)
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			return nil
		},
	}
}

func (application *SitedashApplication) adminDeleteUserCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "delete-user <user-id>",
		Short: "Delete another account after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			assumeYes, _ := command.Flags().GetBool(flagNameAssumeYes)
			session, sessionErr := application.openSession(command, assumeYes)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			current, loginErr := session.requireLogin(command)
			if loginErr != nil {
				return loginErr
			}
			outcome := session.controller.DeleteUser(command.Context(), current, arguments[0])
			if outcome.Cancelled {
				fmt.Fprint(command.OutOrStdout(), cancelledLine)
				return nil
			}
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			return nil
		},
	}
	command.Flags().Bool(flagNameAssumeYes, false, flagUsageAssumeYes)
	return command
}

func joinRoles(roles []model.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}
