package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MarkoPoloResearchLab/sitedash/internal/console"
	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/website"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	flagNameBusinessType   = "business-type"
	flagNameIndustry       = "industry"
	flagNameAssumeYes      = "yes"
	flagNameTitle          = "title"
	flagNameHeroHeading    = "hero-heading"
	flagNameHeroSubheading = "hero-subheading"
	flagNameAboutHeading   = "about-heading"
	flagNameAboutText      = "about-text"
	flagNameContactEmail   = "contact-email"
	flagNameContactPhone   = "contact-phone"
	flagNameContactAddress = "contact-address"

	flagUsageAssumeYes = "answer yes to the confirmation question"

	websitesHeaderLine   = "ID\tBUSINESS TYPE\tINDUSTRY\tMANAGE\tPREVIEW\n"
	websitesRowPattern   = "%s\t%s\t%s\t%s\t%s\n"
	manageAllowedLabel   = "yes"
	manageForbiddenLabel = "no"
	cancelledLine        = "Cancelled.\n"
	tabwriterMinWidth    = 0
	tabwriterTabWidth    = 4
	tabwriterPadding     = 2
	tabwriterPadChar     = ' '
)

func printNotice(command *cobra.Command, kind notice.Kind, text string) {
	console.NewNotifier(command.OutOrStdout()).Notify(command.Context(), notice.Message{Kind: kind, Text: text})
}

func printWebsites(command *cobra.Command, websites dashboard.WebsiteList) error {
	if websites.IsError {
		return fmt.Errorf("%w: %s", errOperationFailed, websites.Message)
	}
	if len(websites.Rows) == 0 {
		printNotice(command, notice.KindInfo, websites.Message)
		return nil
	}

	writer := tabwriter.NewWriter(command.OutOrStdout(), tabwriterMinWidth, tabwriterTabWidth, tabwriterPadding, tabwriterPadChar, 0)
	fmt.Fprint(writer, websitesHeaderLine)
	for _, row := range websites.Rows {
		manageLabel := manageForbiddenLabel
		if row.CanManage {
			manageLabel = manageAllowedLabel
		}
		fmt.Fprintf(writer, websitesRowPattern, row.ID, row.BusinessType, row.Industry, manageLabel, row.PreviewURL)
	}
	return writer.Flush()
}

func (application *SitedashApplication) sitesCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "sites",
		Short: "List, generate, edit and delete websites",
	}
	command.AddCommand(
		application.sitesListCommand(),
		application.sitesGenerateCommand(),
		application.sitesEditCommand(),
		application.sitesDeleteCommand(),
	)
	return command
}

func (application *SitedashApplication) sitesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List websites with the actions available to you",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			_, view := session.controller.Start(command.Context())
			if !view.Authenticated {
				return errNotLoggedIn
			}
			return printWebsites(command, view.Websites)
		},
	}
}

func (application *SitedashApplication) sitesGenerateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "generate",
		Short: "Generate a website for a business type and industry",
		RunE: func(command *cobra.Command, arguments []string) error {
			if argumentsErr := rejectArguments(arguments); argumentsErr != nil {
				return argumentsErr
			}
			businessType, _ := command.Flags().GetString(flagNameBusinessType)
			industry, _ := command.Flags().GetString(flagNameIndustry)
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			current, loginErr := session.requireLogin(command)
			if loginErr != nil {
				return loginErr
			}
			outcome := session.controller.Generate(command.Context(), current, businessType, industry)
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			printNotice(command, notice.KindSuccess, outcome.Message)
			return printWebsites(command, *outcome.Websites)
		},
	}
	command.Flags().String(flagNameBusinessType, "", "kind of business, for example bakery")
	command.Flags().String(flagNameIndustry, "", "industry of the business, for example food")
	return command
}

type editFlag struct {
	name  string
	usage string
	field func(form *website.EditForm) *string
}

var editFlags = []editFlag{
	{name: flagNameTitle, usage: "site title", field: func(form *website.EditForm) *string { return &form.Title }},
	{name: flagNameHeroHeading, usage: "hero heading", field: func(form *website.EditForm) *string { return &form.HeroHeading }},
	{name: flagNameHeroSubheading, usage: "hero subheading", field: func(form *website.EditForm) *string { return &form.HeroSubheading }},
	{name: flagNameAboutHeading, usage: "about heading", field: func(form *website.EditForm) *string { return &form.AboutHeading }},
	{name: flagNameAboutText, usage: "about text", field: func(form *website.EditForm) *string { return &form.AboutText }},
	{name: flagNameContactEmail, usage: "contact email", field: func(form *website.EditForm) *string { return &form.ContactEmail }},
	{name: flagNameContactPhone, usage: "contact phone", field: func(form *website.EditForm) *string { return &form.ContactPhone }},
	{name: flagNameContactAddress, usage: "contact address", field: func(form *website.EditForm) *string { return &form.ContactAddress }},
}

// sitesEditCommand pre-populates the form from the stored content and overrides only the fields
// given on the command line.
func (application *SitedashApplication) sitesEditCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "edit <website-id>",
		Short: "Edit the hand-editable fields of a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			websiteID := arguments[0]
			session, sessionErr := application.openSession(command, false)
			if sessionErr != nil {
				return sessionErr
			}
			defer session.Close()

			current, loginErr := session.requireLogin(command)
			if loginErr != nil {
				return loginErr
			}
			form, opened := session.controller.OpenEdit(command.Context(), current, websiteID)
			if !opened.Success {
				return failedOutcomeError(opened)
			}
			for _, flag := range editFlags {
				if !command.Flags().Changed(flag.name) {
					continue
				}
				value, _ := command.Flags().GetString(flag.name)
				*flag.field(&form) = value
			}

			outcome := session.controller.SubmitEdit(command.Context(), current, websiteID, form)
			if outcome.Warning != "" {
				printNotice(command, notice.KindInfo, outcome.Warning)
			}
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			printNotice(command, notice.KindSuccess, outcome.Message)
			return nil
		},
	}
	for _, flag := range editFlags {
		command.Flags().String(flag.name, "", flag.usage)
	}
	return command
}

func (application *SitedashApplication) sitesDeleteCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "delete <website-id>",
		Short: "Delete a website after confirmation",
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
			outcome := session.controller.Delete(command.Context(), current, arguments[0])
			if outcome.Cancelled {
				fmt.Fprint(command.OutOrStdout(), cancelledLine)
				return nil
			}
			if !outcome.Success {
				return failedOutcomeError(outcome)
			}
			return printWebsites(command, *outcome.Websites)
		},
	}
	command.Flags().Bool(flagNameAssumeYes, false, flagUsageAssumeYes)
	return command
}
