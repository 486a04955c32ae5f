package dashboard

import (
	"context"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	// MessageNoUsers is shown for an empty account listing.
	MessageNoUsers = "No users found."
	// MessageConfirmDeleteUser is the confirmation question before an account is deleted.
	MessageConfirmDeleteUser = "Are you sure you want to delete this user? This action cannot be undone."
	// MessageUserDeleted is shown after a successful account delete.
	MessageUserDeleted = "User deleted successfully!"

	messagePrefixLoadUsersError   = "Error loading users: "
	messagePrefixDeleteUserError  = "Failed to delete user: "
	messagePrefixAssignRoleError  = "Failed to assign role: "
	placeholderNeverLoggedIn      = "Never"
	placeholderUnknownCreatedTime = "N/A"
)

// UserRow is one rendered entry of the account listing.
type UserRow struct {
	ID        string
	Email     string
	Role      model.Role
	CreatedAt string
	LastLogin string
	IsSelf    bool
}

// UserList is the rendered account listing.
type UserList struct {
	Rows            []UserRow
	AssignableRoles []model.Role
	Message         string
	IsError         bool
}

// ListUsers fetches every account. The API decides whether the session may see them.
func (controller *Controller) ListUsers(ctx context.Context, session Session) UserList {
	users, result := controller.client.ListUsers(ctx, session.Token)
	if !result.Success {
		return UserList{Message: messagePrefixLoadUsersError + result.Message, IsError: true}
	}
	if len(users) == 0 {
		return UserList{Message: MessageNoUsers}
	}

	rows := make([]UserRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, UserRow{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: stringOrPlaceholder(user.CreatedAt, placeholderUnknownCreatedTime),
			LastLogin: stringOrPlaceholder(user.LastLogin, placeholderNeverLoggedIn),
			IsSelf:    session.UserID != "" && user.ID == session.UserID,
		})
	}
	return UserList{Rows: rows, AssignableRoles: model.AssignableRoles}
}

// AssignRole changes the role of another account and notifies the result.
func (controller *Controller) AssignRole(ctx context.Context, session Session, userID string, role model.Role) Outcome {
	result := controller.client.AssignRole(ctx, session.Token, userID, role)
	if !result.Success {
		controller.notify(ctx, notice.KindError, messagePrefixAssignRoleError+result.Message)
		return failedOutcome(result)
	}
	controller.notify(ctx, notice.KindSuccess, result.Message)
	return Outcome{Success: true, Message: result.Message}
}

// DeleteUser removes another account after the user confirms.
func (controller *Controller) DeleteUser(ctx context.Context, session Session, userID string) Outcome {
	if !controller.confirm(ctx, MessageConfirmDeleteUser) {
		return Outcome{Cancelled: true}
	}

	result := controller.client.DeleteUser(ctx, session.Token, userID)
	if !result.Success {
		controller.notify(ctx, notice.KindError, messagePrefixDeleteUserError+result.Message)
		return failedOutcome(result)
	}
	controller.notify(ctx, notice.KindSuccess, MessageUserDeleted)
	return Outcome{Success: true, Message: MessageUserDeleted}
}

func stringOrPlaceholder(value *string, placeholder string) string {
	if value == nil || *value == "" {
		return placeholder
	}
	return *value
}
