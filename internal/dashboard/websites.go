package dashboard

import (
	"context"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/website"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	// MessageLoadingWebsites is shown while the listing is requested.
	MessageLoadingWebsites = "Loading websites..."
	// MessageNoWebsites is shown for an empty listing.
	MessageNoWebsites = "No websites created yet."
	// MessageConfirmDeleteWebsite is the confirmation question before a website is deleted.
	MessageConfirmDeleteWebsite = "Are you sure you want to delete this website? This action cannot be undone."
	// MessageWebsiteDeleted is shown after a successful delete.
	MessageWebsiteDeleted = "Website deleted successfully!"
	// MessagePartialUpdate warns that the stored content could not be read before saving.
	MessagePartialUpdate = "Could not fetch original content for merge. Saving partial update."
	// MessageWebsiteWithoutContent explains why a website without content cannot be edited.
	MessageWebsiteWithoutContent = "Website has no content to edit."

	messagePrefixLoadWebsitesError = "Error loading websites: "
	messagePrefixDeleteFailure     = "Failed to delete website: "
	messagePrefixLoadEditFailure   = "Failed to load website data for editing: "
	placeholderMissingValue        = "N/A"

	logEventPartialUpdate = "partial_update"
)

// WebsiteRow is one rendered entry of the website listing.
type WebsiteRow struct {
	ID           string
	BusinessType string
	Industry     string
	OwnerID      string
	PreviewURL   string
	CanManage    bool
}

// WebsiteList is the rendered website listing. Message is set for empty and failed listings.
type WebsiteList struct {
	Rows    []WebsiteRow
	Message string
	IsError bool
}

// ListWebsites fetches the listing and decides the row actions for the session.
func (controller *Controller) ListWebsites(ctx context.Context, session Session) WebsiteList {
	websites, result := controller.client.ListWebsites(ctx, session.Token)
	if !result.Success {
		return WebsiteList{Message: messagePrefixLoadWebsitesError + result.Message, IsError: true}
	}
	if len(websites) == 0 {
		return WebsiteList{Message: MessageNoWebsites}
	}

	rows := make([]WebsiteRow, 0, len(websites))
	for _, summary := range websites {
		rows = append(rows, WebsiteRow{
			ID:           summary.ID,
			BusinessType: valueOrPlaceholder(summary.BusinessType),
			Industry:     valueOrPlaceholder(summary.Industry),
			OwnerID:      summary.OwnerID,
			PreviewURL:   controller.client.PreviewURL(summary.ID),
			CanManage:    website.CanManageWebsite(session.Role, session.UserID, summary.OwnerID),
		})
	}
	return WebsiteList{Rows: rows}
}

// Generate requests a new website and re-lists on success.
func (controller *Controller) Generate(ctx context.Context, session Session, businessType string, industry string) Outcome {
	result := controller.client.GenerateWebsite(ctx, session.Token, businessType, industry)
	if !result.Success {
		return failedOutcome(result)
	}
	websites := controller.ListWebsites(ctx, session)
	return Outcome{Success: true, Message: result.Message, Websites: &websites}
}

// OpenEdit fetches the full record and pre-populates the edit form from it.
func (controller *Controller) OpenEdit(ctx context.Context, session Session, websiteID string) (website.EditForm, Outcome) {
	record, result := controller.client.GetWebsite(ctx, session.Token, websiteID)
	if !result.Success {
		controller.notify(ctx, notice.KindError, messagePrefixLoadEditFailure+result.Message)
		return website.EditForm{}, failedOutcome(result)
	}
	if !record.HasContent {
		controller.notify(ctx, notice.KindError, messagePrefixLoadEditFailure+MessageWebsiteWithoutContent)
		return website.EditForm{}, Outcome{Message: MessageWebsiteWithoutContent}
	}
	return website.FormFromContent(record.Content), Outcome{Success: true, Message: result.Message}
}

// SubmitEdit merges the form into freshly fetched content and saves it. When the fetch fails the
// form fields are saved alone and the outcome carries a warning.
func (controller *Controller) SubmitEdit(ctx context.Context, session Session, websiteID string, form website.EditForm) Outcome {
	record, fetchResult := controller.client.GetWebsite(ctx, session.Token, websiteID)
	if fetchResult.SessionInvalid {
		return failedOutcome(fetchResult)
	}

	var existing *model.WebsiteContent
	warning := ""
	if fetchResult.Success && record.HasContent {
		existing = &record.Content
	} else {
		warning = MessagePartialUpdate
		controller.logger.Warn(logEventPartialUpdate, zap.String(logFieldWebsiteID, websiteID), zap.String("msg", fetchResult.Message))
	}

	updateResult := controller.client.UpdateWebsite(ctx, session.Token, websiteID, website.BuildUpdatePayload(form, existing))
	if !updateResult.Success {
		outcome := failedOutcome(updateResult)
		outcome.Warning = warning
		return outcome
	}
	websites := controller.ListWebsites(ctx, session)
	return Outcome{Success: true, Message: updateResult.Message, Warning: warning, Websites: &websites}
}

// Delete removes a website after the user confirms. The listing is only refreshed after the
// API reports success.
func (controller *Controller) Delete(ctx context.Context, session Session, websiteID string) Outcome {
	if !controller.confirm(ctx, MessageConfirmDeleteWebsite) {
		return Outcome{Cancelled: true}
	}

	result := controller.client.DeleteWebsite(ctx, session.Token, websiteID)
	if !result.Success {
		controller.notify(ctx, notice.KindError, messagePrefixDeleteFailure+result.Message)
		return failedOutcome(result)
	}

	controller.notify(ctx, notice.KindSuccess, MessageWebsiteDeleted)
	websites := controller.ListWebsites(ctx, session)
	return Outcome{Success: true, Message: MessageWebsiteDeleted, Websites: &websites}
}

func valueOrPlaceholder(value string) string {
	if value == "" {
		return placeholderMissingValue
	}
	return value
}
