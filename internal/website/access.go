package website

import "github.com/MarkoPoloResearchLab/sitedash/internal/model"

// The rules below compare roles by equality only. An empty role means the token could not be read
// and always receives the least privileged view.

// ShowGenerateSection reports whether the website generation form is offered.
func ShowGenerateSection(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleEditor
}

// ShowAdminLink reports whether the user administration entry point is offered.
func ShowAdminLink(role model.Role) bool {
	return role == model.RoleAdmin
}

// CanManageWebsite reports whether edit and delete controls are offered for a website.
func CanManageWebsite(role model.Role, userID string, ownerID string) bool {
	if role == model.RoleAdmin {
		return true
	}
	return role == model.RoleEditor && userID != "" && ownerID == userID
}
