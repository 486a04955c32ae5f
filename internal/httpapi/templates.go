package httpapi

import (
	_ "embed"
	"html/template"
)

//go:embed templates/layout.tmpl
var layoutTemplateHTML string

//go:embed templates/login.tmpl
var loginTemplateHTML string

//go:embed templates/signup.tmpl
var signupTemplateHTML string

//go:embed templates/dashboard.tmpl
var dashboardTemplateHTML string

//go:embed templates/edit.tmpl
var editTemplateHTML string

//go:embed templates/confirm.tmpl
var confirmTemplateHTML string

//go:embed templates/admin.tmpl
var adminTemplateHTML string

//go:embed templates/session_expired.tmpl
var sessionExpiredTemplateHTML string

const (
	loginTemplateName          = "login"
	signupTemplateName         = "signup"
	dashboardTemplateName      = "dashboard"
	editTemplateName           = "edit"
	confirmTemplateName        = "confirm"
	adminTemplateName          = "admin"
	sessionExpiredTemplateName = "session_expired"
)

// pageTemplates holds one compiled template per page, each sharing the layout blocks.
type pageTemplates map[string]*template.Template

func mustParsePageTemplates() pageTemplates {
	sources := map[string]string{
		loginTemplateName:          loginTemplateHTML,
		signupTemplateName:         signupTemplateHTML,
		dashboardTemplateName:      dashboardTemplateHTML,
		editTemplateName:           editTemplateHTML,
		confirmTemplateName:        confirmTemplateHTML,
		adminTemplateName:          adminTemplateHTML,
		sessionExpiredTemplateName: sessionExpiredTemplateHTML,
	}
	compiled := make(pageTemplates, len(sources))
	for name, source := range sources {
		layout := template.Must(template.New(name).Parse(layoutTemplateHTML))
		compiled[name] = template.Must(layout.Parse(source))
	}
	return compiled
}
