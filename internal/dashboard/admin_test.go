package dashboard_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/testutil"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

func TestListUsersMarksCurrentAccount(t *testing.T) {
	builderAPI := testutil.NewBuilderAPIServer(t)
	adminID := builderAPI.AddUser(testAdminEmail, testPassword, model.RoleAdmin)
	builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness := newControllerHarnessFor(t, builderAPI, builderAPI.IssueToken(adminID, model.RoleAdmin))
	session := harness.controller.LoadSession(context.Background())

	users := harness.controller.ListUsers(context.Background(), session)

	require.False(t, users.IsError)
	require.Len(t, users.Rows, 2)
	require.Equal(t, model.AssignableRoles, users.AssignableRoles)
	require.True(t, users.Rows[0].IsSelf)
	require.Equal(t, "Never", users.Rows[0].LastLogin)
	require.False(t, users.Rows[1].IsSelf)
}

func TestListUsersForbiddenForEditor(t *testing.T) {
	builderAPI := testutil.NewBuilderAPIServer(t)
	editorID := builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness := newControllerHarnessFor(t, builderAPI, builderAPI.IssueToken(editorID, model.RoleEditor))
	session := harness.controller.LoadSession(context.Background())

	users := harness.controller.ListUsers(context.Background(), session)

	require.True(t, users.IsError)
	require.Contains(t, users.Message, "Error loading users: Permission denied")
	require.NotEmpty(t, harness.storedToken(t))
}

func TestAssignRoleNotifiesResult(t *testing.T) {
	builderAPI := testutil.NewBuilderAPIServer(t)
	adminID := builderAPI.AddUser(testAdminEmail, testPassword, model.RoleAdmin)
	editorID := builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness := newControllerHarnessFor(t, builderAPI, builderAPI.IssueToken(adminID, model.RoleAdmin))
	session := harness.controller.LoadSession(context.Background())

	promoted := harness.controller.AssignRole(context.Background(), session, editorID, model.RoleAdmin)
	require.True(t, promoted.Success)
	role, _ := builderAPI.UserRole(editorID)
	require.Equal(t, model.RoleAdmin, role)

	self := harness.controller.AssignRole(context.Background(), session, adminID, model.RoleViewer)
	require.False(t, self.Success)

	require.Equal(t, []notice.Message{
		{Kind: notice.KindSuccess, Text: testutil.BuilderMessageRoleUpdated},
		{Kind: notice.KindError, Text: "Failed to assign role: Cannot change your own role via this interface"},
	}, harness.notifier.Messages())
}

func TestDeleteUserRequiresConfirmation(t *testing.T) {
	builderAPI := testutil.NewBuilderAPIServer(t)
	adminID := builderAPI.AddUser(testAdminEmail, testPassword, model.RoleAdmin)
	editorID := builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness := newControllerHarnessFor(t, builderAPI, builderAPI.IssueToken(adminID, model.RoleAdmin))
	session := harness.controller.LoadSession(context.Background())

	cancelled := harness.controller.DeleteUser(context.Background(), session, editorID)
	require.True(t, cancelled.Cancelled)
	require.Zero(t, builderAPI.CountRequests(http.MethodDelete, "/admin/users/"+editorID))

	harness.confirmer.answer = true
	deleted := harness.controller.DeleteUser(context.Background(), session, editorID)
	require.True(t, deleted.Success)
	require.Equal(t, dashboard.MessageUserDeleted, deleted.Message)
	_, exists := builderAPI.UserRole(editorID)
	require.False(t, exists)
	require.Equal(t, []string{dashboard.MessageConfirmDeleteUser, dashboard.MessageConfirmDeleteUser}, harness.confirmer.questions)
}
