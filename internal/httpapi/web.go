package httpapi

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/api"
	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/website"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	RootPath           = "/"
	LoginPagePath      = "/login"
	SignupPagePath     = "/signup"
	LogoutPath         = "/logout"
	DashboardPagePath  = "/dashboard"
	WebsitesPath       = "/dashboard/websites"
	AdminPagePath      = "/admin"
	SessionExpiredPath = "/session-expired"

	websitePath          = "/dashboard/websites/:id"
	websiteEditPath      = "/dashboard/websites/:id/edit"
	websiteDeletePath    = "/dashboard/websites/:id/delete"
	userRolePath         = "/admin/users/:id/role"
	userDeletePath       = "/admin/users/:id/delete"
	pathParameterID      = "id"
	htmlContentType      = "text/html; charset=utf-8"
	pageRenderFailure    = "render_failed"
	noticeElementID      = "sitedash-notices"
	noticeBaseClass      = "sitedash-notice"
	confirmElementID     = "sitedash-confirm"
	confirmBaseClass     = "sitedash-confirm"
	confirmFieldName     = "confirm"
	confirmFieldValueYes = "yes"
	confirmLabelYes      = "Yes, delete"
	confirmLabelNo       = "Cancel"

	formFieldEmail        = "email"
	formFieldPassword     = "password"
	formFieldBusinessType = "business_type"
	formFieldIndustry     = "industry"
	formFieldRole         = "role"

	pageTitleLogin          = "Log in"
	pageTitleSignup         = "Sign up"
	pageTitleDashboard      = "Dashboard"
	pageTitleEdit           = "Edit website"
	pageTitleConfirm        = "Confirm"
	pageTitleAdmin          = "Users"
	pageTitleSessionExpired = "Session expired"

	logEventRenderPage = "render_page"
	logFieldTemplate   = "template"

	errorMessageMissingClient   = "httpapi: api client is required"
	errorMessageMissingSessions = "httpapi: session manager is required"
)

var (
	// ErrMissingClient indicates the web handlers were built without an API client.
	ErrMissingClient = errors.New(errorMessageMissingClient)
	// ErrMissingSessions indicates the web handlers were built without a session manager.
	ErrMissingSessions = errors.New(errorMessageMissingSessions)
)

// WebConfig wires the server-rendered dashboard.
type WebConfig struct {
	Client           *api.Client
	Sessions         *SessionManager
	LoginRateLimiter *LoginRateLimiter
	Logger           *zap.Logger
}

// WebHandlers serves the dashboard pages. Every request builds its own controller around the
// cookie session of that request.
type WebHandlers struct {
	client       *api.Client
	sessions     *SessionManager
	loginLimiter *LoginRateLimiter
	templates    pageTemplates
	logger       *zap.Logger
}

type layoutData struct {
	Title          string
	NoticesHTML    template.HTML
	Authenticated  bool
	ShowAdminLink  bool
	RefreshURL     string
	RefreshSeconds int
}

type credentialsPageData struct {
	layoutData
	Email string
	Error string
}

type dashboardPageData struct {
	layoutData
	View dashboard.View
}

type editPageData struct {
	layoutData
	WebsiteID string
	Form      website.EditForm
	Error     string
}

type confirmPageData struct {
	layoutData
	ConfirmHTML template.HTML
}

type adminPageData struct {
	layoutData
	Users dashboard.UserList
}

// NewWebHandlers compiles the page templates.
func NewWebHandlers(configuration WebConfig) (*WebHandlers, error) {
	if configuration.Client == nil {
		return nil, ErrMissingClient
	}
	if configuration.Sessions == nil {
		return nil, ErrMissingSessions
	}
	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loginLimiter := configuration.LoginRateLimiter
	if loginLimiter == nil {
		loginLimiter = NewLoginRateLimiter(DefaultLoginAttemptsPerMinute, logger)
	}
	return &WebHandlers{
		client:       configuration.Client,
		sessions:     configuration.Sessions,
		loginLimiter: loginLimiter,
		templates:    mustParsePageTemplates(),
		logger:       logger,
	}, nil
}

// RegisterRoutes attaches the dashboard pages to router.
func (handlers *WebHandlers) RegisterRoutes(router gin.IRouter) {
	router.GET(RootPath, func(context *gin.Context) {
		context.Redirect(http.StatusFound, DashboardPagePath)
	})
	router.GET(LoginPagePath, handlers.RenderLogin)
	router.POST(LoginPagePath, handlers.loginLimiter.Middleware(), handlers.SubmitLogin)
	router.GET(SignupPagePath, handlers.RenderSignup)
	router.POST(SignupPagePath, handlers.loginLimiter.Middleware(), handlers.SubmitSignup)
	router.POST(LogoutPath, handlers.Logout)
	router.GET(SessionExpiredPath, handlers.RenderSessionExpired)

	router.GET(DashboardPagePath, handlers.RenderDashboard)
	router.POST(WebsitesPath, handlers.GenerateWebsite)
	router.GET(websiteEditPath, handlers.RenderEditWebsite)
	router.POST(websitePath, handlers.SubmitEditWebsite)
	router.GET(websiteDeletePath, handlers.RenderDeleteWebsite)
	router.POST(websiteDeletePath, handlers.DeleteWebsite)

	router.GET(AdminPagePath, handlers.RenderAdmin)
	router.POST(userRolePath, handlers.AssignRole)
	router.GET(userDeletePath, handlers.RenderDeleteUser)
	router.POST(userDeletePath, handlers.DeleteUser)
}

func (handlers *WebHandlers) RenderLogin(context *gin.Context) {
	_, session := handlers.begin(context, false)
	handlers.render(context, session, loginTemplateName, &credentialsPageData{layoutData: layoutData{Title: pageTitleLogin}})
}

func (handlers *WebHandlers) SubmitLogin(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	email := context.PostForm(formFieldEmail)
	outcome := controller.Login(context.Request.Context(), email, context.PostForm(formFieldPassword))
	if !outcome.Success {
		handlers.render(context, session, loginTemplateName, &credentialsPageData{
			layoutData: layoutData{Title: pageTitleLogin},
			Email:      email,
			Error:      outcome.Message,
		})
		return
	}
	session.Notify(context.Request.Context(), notice.Message{Kind: notice.KindSuccess, Text: outcome.Message})
	handlers.redirect(context, session, DashboardPagePath)
}

func (handlers *WebHandlers) RenderSignup(context *gin.Context) {
	_, session := handlers.begin(context, false)
	handlers.render(context, session, signupTemplateName, &credentialsPageData{layoutData: layoutData{Title: pageTitleSignup}})
}

func (handlers *WebHandlers) SubmitSignup(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	email := context.PostForm(formFieldEmail)
	outcome := controller.Signup(context.Request.Context(), email, context.PostForm(formFieldPassword))
	if !outcome.Success {
		handlers.render(context, session, signupTemplateName, &credentialsPageData{
			layoutData: layoutData{Title: pageTitleSignup},
			Email:      email,
			Error:      outcome.Message,
		})
		return
	}
	session.Notify(context.Request.Context(), notice.Message{Kind: notice.KindSuccess, Text: outcome.Message})
	handlers.redirect(context, session, LoginPagePath)
}

func (handlers *WebHandlers) Logout(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	controller.Logout(context.Request.Context())
	handlers.followNavigation(context, session)
}

func (handlers *WebHandlers) RenderSessionExpired(context *gin.Context) {
	_, session := handlers.begin(context, false)
	handlers.render(context, session, sessionExpiredTemplateName, &layoutData{
		Title:          pageTitleSessionExpired,
		RefreshURL:     LoginPagePath,
		RefreshSeconds: int(dashboard.SessionExpiryRedirectDelay.Seconds()),
	})
}

func (handlers *WebHandlers) RenderDashboard(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	_, view := controller.Start(context.Request.Context())
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.render(context, session, dashboardTemplateName, &dashboardPageData{
		layoutData: layoutData{Title: pageTitleDashboard, Authenticated: view.Authenticated, ShowAdminLink: view.ShowAdminLink},
		View:       view,
	})
}

func (handlers *WebHandlers) GenerateWebsite(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	outcome := controller.Generate(context.Request.Context(), current, context.PostForm(formFieldBusinessType), context.PostForm(formFieldIndustry))
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.notifyOutcome(context, session, outcome)
	handlers.redirect(context, session, DashboardPagePath)
}

func (handlers *WebHandlers) RenderEditWebsite(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	websiteID := context.Param(pathParameterID)
	form, outcome := controller.OpenEdit(context.Request.Context(), current, websiteID)
	if handlers.followNavigation(context, session) {
		return
	}
	if !outcome.Success {
		handlers.redirect(context, session, DashboardPagePath)
		return
	}
	handlers.render(context, session, editTemplateName, &editPageData{
		layoutData: handlers.authenticatedLayout(pageTitleEdit, current),
		WebsiteID:  websiteID,
		Form:       form,
	})
}

func (handlers *WebHandlers) SubmitEditWebsite(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	websiteID := context.Param(pathParameterID)
	var form website.EditForm
	if bindErr := context.ShouldBind(&form); bindErr != nil {
		context.AbortWithStatus(http.StatusBadRequest)
		return
	}

	outcome := controller.SubmitEdit(context.Request.Context(), current, websiteID, form)
	if handlers.followNavigation(context, session) {
		return
	}
	if outcome.Warning != "" {
		session.Notify(context.Request.Context(), notice.Message{Kind: notice.KindInfo, Text: outcome.Warning})
	}
	if !outcome.Success {
		handlers.render(context, session, editTemplateName, &editPageData{
			layoutData: handlers.authenticatedLayout(pageTitleEdit, current),
			WebsiteID:  websiteID,
			Form:       form,
			Error:      outcome.Message,
		})
		return
	}
	session.Notify(context.Request.Context(), notice.Message{Kind: notice.KindSuccess, Text: outcome.Message})
	handlers.redirect(context, session, DashboardPagePath)
}

func (handlers *WebHandlers) RenderDeleteWebsite(context *gin.Context) {
	handlers.renderConfirm(context, dashboard.MessageConfirmDeleteWebsite, context.Request.URL.Path, DashboardPagePath)
}

// DeleteWebsite runs the delete flow. Only a post carrying confirm=yes reaches the API.
func (handlers *WebHandlers) DeleteWebsite(context *gin.Context) {
	controller, session := handlers.begin(context, context.PostForm(confirmFieldName) == confirmFieldValueYes)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	controller.Delete(context.Request.Context(), current, context.Param(pathParameterID))
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.redirect(context, session, DashboardPagePath)
}

func (handlers *WebHandlers) RenderAdmin(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	users := controller.ListUsers(context.Request.Context(), current)
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.render(context, session, adminTemplateName, &adminPageData{
		layoutData: handlers.authenticatedLayout(pageTitleAdmin, current),
		Users:      users,
	})
}

func (handlers *WebHandlers) AssignRole(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	controller.AssignRole(context.Request.Context(), current, context.Param(pathParameterID), model.Role(context.PostForm(formFieldRole)))
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.redirect(context, session, AdminPagePath)
}

func (handlers *WebHandlers) RenderDeleteUser(context *gin.Context) {
	handlers.renderConfirm(context, dashboard.MessageConfirmDeleteUser, context.Request.URL.Path, AdminPagePath)
}

func (handlers *WebHandlers) DeleteUser(context *gin.Context) {
	controller, session := handlers.begin(context, context.PostForm(confirmFieldName) == confirmFieldValueYes)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	controller.DeleteUser(context.Request.Context(), current, context.Param(pathParameterID))
	if handlers.followNavigation(context, session) {
		return
	}
	handlers.redirect(context, session, AdminPagePath)
}

func (handlers *WebHandlers) begin(context *gin.Context, confirmed bool) (*dashboard.Controller, *requestSession) {
	session := handlers.sessions.load(context)
	controller := dashboard.NewController(dashboard.Dependencies{
		Client:     handlers.client,
		TokenStore: session,
		Notifier:   session,
		Confirmer:  formConfirmer{confirmed: confirmed},
		Navigator:  session,
		Logger:     handlers.logger,
	})
	return controller, session
}

func (handlers *WebHandlers) requireLogin(context *gin.Context, controller *dashboard.Controller, session *requestSession) (dashboard.Session, bool) {
	current := controller.LoadSession(context.Request.Context())
	if current.HasToken {
		return current, true
	}
	session.Notify(context.Request.Context(), notice.Message{Kind: notice.KindInfo, Text: dashboard.MessageLoginRequired})
	handlers.redirect(context, session, LoginPagePath)
	return current, false
}

// followNavigation turns a navigation requested by the controller into a redirect. A delayed
// login redirect goes through the session-expired page, which refreshes to the login page.
func (handlers *WebHandlers) followNavigation(context *gin.Context, session *requestSession) bool {
	destination, delay, navigated := session.pendingNavigation()
	if !navigated {
		return false
	}
	location := DashboardPagePath
	if destination == dashboard.DestinationLogin {
		location = LoginPagePath
		if delay > 0 {
			location = SessionExpiredPath
		}
	}
	handlers.redirect(context, session, location)
	return true
}

func (handlers *WebHandlers) notifyOutcome(context *gin.Context, session *requestSession, outcome dashboard.Outcome) {
	kind := notice.KindSuccess
	if !outcome.Success {
		kind = notice.KindError
	}
	session.Notify(context.Request.Context(), notice.Message{Kind: kind, Text: outcome.Message})
}

func (handlers *WebHandlers) authenticatedLayout(title string, current dashboard.Session) layoutData {
	return layoutData{
		Title:         title,
		Authenticated: true,
		ShowAdminLink: website.ShowAdminLink(current.Role),
	}
}

func (handlers *WebHandlers) renderConfirm(context *gin.Context, question string, action string, cancelHref string) {
	controller, session := handlers.begin(context, false)
	current, ok := handlers.requireLogin(context, controller, session)
	if !ok {
		return
	}
	confirmHTML, confirmErr := notice.RenderConfirm(notice.ConfirmConfig{
		ElementID:    confirmElementID,
		BaseClass:    confirmBaseClass,
		Question:     question,
		Action:       action,
		FieldName:    confirmFieldName,
		FieldValue:   confirmFieldValueYes,
		ConfirmLabel: confirmLabelYes,
		CancelLabel:  confirmLabelNo,
		CancelHref:   cancelHref,
	})
	if confirmErr != nil {
		handlers.logger.Error(logEventRenderPage, zap.String(logFieldTemplate, confirmTemplateName), zap.Error(confirmErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": pageRenderFailure})
		return
	}
	handlers.render(context, session, confirmTemplateName, &confirmPageData{
		layoutData:  handlers.authenticatedLayout(pageTitleConfirm, current),
		ConfirmHTML: confirmHTML,
	})
}

func (handlers *WebHandlers) redirect(context *gin.Context, session *requestSession, location string) {
	session.save()
	context.Redirect(http.StatusSeeOther, location)
}

// pageLayout gives render access to the layout embedded in every page payload.
type pageLayout interface {
	layout() *layoutData
}

func (data *layoutData) layout() *layoutData {
	return data
}

func (handlers *WebHandlers) render(context *gin.Context, session *requestSession, templateName string, payload pageLayout) {
	noticesHTML, noticeErr := notice.Render(notice.Config{
		ElementID: noticeElementID,
		BaseClass: noticeBaseClass,
		Messages:  session.takeNotices(),
	})
	if noticeErr != nil {
		handlers.logger.Warn(logEventRenderPage, zap.String(logFieldTemplate, templateName), zap.Error(noticeErr))
	}
	payload.layout().NoticesHTML = noticesHTML

	var buffer bytes.Buffer
	if executeErr := handlers.templates[templateName].Execute(&buffer, payload); executeErr != nil {
		handlers.logger.Error(logEventRenderPage, zap.String(logFieldTemplate, templateName), zap.Error(executeErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": pageRenderFailure})
		return
	}
	session.save()
	context.Data(http.StatusOK, htmlContentType, buffer.Bytes())
}
