package website_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/website"
)

func TestCanManageWebsite(t *testing.T) {
	testCases := []struct {
		name     string
		role     model.Role
		userID   string
		ownerID  string
		expected bool
	}{
		{name: "editor owns website", role: model.RoleEditor, userID: "u1", ownerID: "u1", expected: true},
		{name: "editor does not own website", role: model.RoleEditor, userID: "u1", ownerID: "u2", expected: false},
		{name: "editor without user id", role: model.RoleEditor, userID: "", ownerID: "", expected: false},
		{name: "admin any owner", role: model.RoleAdmin, userID: "u1", ownerID: "u2", expected: true},
		{name: "admin without user id", role: model.RoleAdmin, userID: "", ownerID: "u2", expected: true},
		{name: "viewer owns website", role: model.RoleViewer, userID: "u1", ownerID: "u1", expected: false},
		{name: "unknown role", role: "", userID: "u1", ownerID: "u1", expected: false},
		{name: "lowercase role", role: "editor", userID: "u1", ownerID: "u1", expected: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(testingT *testing.T) {
			require.Equal(testingT, testCase.expected, website.CanManageWebsite(testCase.role, testCase.userID, testCase.ownerID))
		})
	}
}

func TestSectionVisibility(t *testing.T) {
	testCases := []struct {
		role             model.Role
		expectedGenerate bool
		expectedAdmin    bool
	}{
		{role: model.RoleAdmin, expectedGenerate: true, expectedAdmin: true},
		{role: model.RoleEditor, expectedGenerate: true, expectedAdmin: false},
		{role: model.RoleViewer, expectedGenerate: false, expectedAdmin: false},
		{role: "", expectedGenerate: false, expectedAdmin: false},
		{role: "Superuser", expectedGenerate: false, expectedAdmin: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(string(testCase.role), func(testingT *testing.T) {
			require.Equal(testingT, testCase.expectedGenerate, website.ShowGenerateSection(testCase.role))
			require.Equal(testingT, testCase.expectedAdmin, website.ShowAdminLink(testCase.role))
		})
	}
}
