package httpapi_test

import (
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/api"
	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/httpapi"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/testutil"
)

const (
	testSessionSecret     = "0123456789abcdef0123456789abcdef"
	testPassword          = "correct-horse"
	testAdminEmail        = "admin@example.com"
	testEditorEmail       = "editor@example.com"
	testOtherEditorEmail  = "other@example.com"
	testViewerEmail       = "viewer@example.com"
	testBusinessType      = "bakery"
	testIndustry          = "food"
	testAllowedOrigin     = "https://builder.example.com"
	testDisallowedOrigin  = "https://evil.example.com"
	testLoginRateLimit    = 50
	testHTTPClientTimeout = 10 * time.Second

	generateSectionToken = `id="generate-section"`
	adminLinkToken       = `id="nav-admin"`
	websitesTableToken   = `id="websites-table"`
	editLinkToken        = `class="website-edit"`
	deleteLinkToken      = `class="website-delete"`
	confirmYesToken      = `id="sitedash-confirm-yes"`
)

type webHarness struct {
	builderAPI *testutil.BuilderAPIServer
	server     *httptest.Server
	client     *http.Client
}

func newWebHarness(testingT *testing.T, loginRateLimit int) *webHarness {
	testingT.Helper()
	gin.SetMode(gin.TestMode)

	builderAPI := testutil.NewBuilderAPIServer(testingT)
	logger := zap.NewNop()
	sessions, sessionsErr := httpapi.NewSessionManager(httpapi.SessionConfig{Secret: []byte(testSessionSecret)}, logger)
	require.NoError(testingT, sessionsErr)
	handlers, handlersErr := httpapi.NewWebHandlers(httpapi.WebConfig{
		Client:           api.NewClient(builderAPI.URL(), nil, logger),
		Sessions:         sessions,
		LoginRateLimiter: httpapi.NewLoginRateLimiter(loginRateLimit, logger),
		Logger:           logger,
	})
	require.NoError(testingT, handlersErr)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(logger))
	handlers.RegisterRoutes(router)
	handlers.RegisterViewRoute(router, []string{" " + testAllowedOrigin + " ", ""})

	server := httptest.NewServer(router)
	testingT.Cleanup(server.Close)

	jar, jarErr := cookiejar.New(nil)
	require.NoError(testingT, jarErr)
	return &webHarness{
		builderAPI: builderAPI,
		server:     server,
		client:     &http.Client{Jar: jar, Timeout: testHTTPClientTimeout},
	}
}

// withoutRedirects shares the cookie jar but stops at the first response.
func (harness *webHarness) withoutRedirects() *http.Client {
	return &http.Client{
		Jar:     harness.client.Jar,
		Timeout: testHTTPClientTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (harness *webHarness) get(testingT *testing.T, client *http.Client, path string) (*http.Response, string) {
	testingT.Helper()
	response, requestErr := client.Get(harness.server.URL + path)
	require.NoError(testingT, requestErr)
	return response, readBody(testingT, response)
}

func (harness *webHarness) post(testingT *testing.T, client *http.Client, path string, values url.Values) (*http.Response, string) {
	testingT.Helper()
	response, requestErr := client.PostForm(harness.server.URL+path, values)
	require.NoError(testingT, requestErr)
	return response, readBody(testingT, response)
}

func (harness *webHarness) login(testingT *testing.T, email string) string {
	testingT.Helper()
	response, body := harness.post(testingT, harness.client, httpapi.LoginPagePath, url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(testingT, http.StatusOK, response.StatusCode)
	require.Equal(testingT, httpapi.DashboardPagePath, response.Request.URL.Path)
	return body
}

func readBody(testingT *testing.T, response *http.Response) string {
	testingT.Helper()
	defer response.Body.Close()
	payload, readErr := io.ReadAll(response.Body)
	require.NoError(testingT, readErr)
	return string(payload)
}

func TestDashboardWithoutSessionAsksForLogin(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)

	response, body := harness.get(t, harness.client, httpapi.RootPath)

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, httpapi.DashboardPagePath, response.Request.URL.Path)
	require.Contains(t, body, dashboard.MessageLoginRequired)
	require.NotContains(t, body, generateSectionToken)
	require.Zero(t, harness.builderAPI.RequestCount())
}

func TestDashboardVisibilityFollowsRole(t *testing.T) {
	testCases := []struct {
		name              string
		email             string
		role              model.Role
		ownsWebsite       bool
		expectGenerate    bool
		expectAdminLink   bool
		expectManageLinks bool
	}{
		{name: "admin manages every website", email: testAdminEmail, role: model.RoleAdmin, expectGenerate: true, expectAdminLink: true, expectManageLinks: true},
		{name: "editor manages own website", email: testEditorEmail, role: model.RoleEditor, ownsWebsite: true, expectGenerate: true, expectManageLinks: true},
		{name: "editor cannot manage foreign website", email: testEditorEmail, role: model.RoleEditor, expectGenerate: true},
		{name: "viewer only previews", email: testViewerEmail, role: model.RoleViewer, ownsWebsite: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(testingT *testing.T) {
			harness := newWebHarness(testingT, testLoginRateLimit)
			userID := harness.builderAPI.AddUser(testCase.email, testPassword, testCase.role)
			otherID := harness.builderAPI.AddUser(testOtherEditorEmail, testPassword, model.RoleEditor)
			ownerID := otherID
			if testCase.ownsWebsite {
				ownerID = userID
			}
			websiteID := harness.builderAPI.AddWebsite(ownerID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})

			body := harness.login(testingT, testCase.email)

			require.Contains(testingT, body, websitesTableToken)
			require.Contains(testingT, body, "/preview/"+websiteID)
			require.Equal(testingT, testCase.expectGenerate, strings.Contains(body, generateSectionToken))
			require.Equal(testingT, testCase.expectAdminLink, strings.Contains(body, adminLinkToken))
			require.Equal(testingT, testCase.expectManageLinks, strings.Contains(body, editLinkToken))
			require.Equal(testingT, testCase.expectManageLinks, strings.Contains(body, deleteLinkToken))
		})
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)

	response, body := harness.post(t, harness.client, httpapi.LoginPagePath, url.Values{"email": {testEditorEmail}, "password": {"wrong"}})

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, httpapi.LoginPagePath, response.Request.URL.Path)
	require.Contains(t, body, testutil.BuilderMessageInvalidCredentials)
	require.Contains(t, body, `value="`+testEditorEmail+`"`)
}

func TestSignupRedirectsToLogin(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)

	response, body := harness.post(t, harness.client, httpapi.SignupPagePath, url.Values{"email": {testViewerEmail}, "password": {testPassword}})

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, httpapi.LoginPagePath, response.Request.URL.Path)
	require.Contains(t, body, testutil.BuilderMessageUserCreated)

	body = harness.login(t, testViewerEmail)
	require.NotContains(t, body, generateSectionToken)
}

func TestLogoutClearsSession(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)

	response, _ := harness.post(t, harness.client, httpapi.LogoutPath, url.Values{})
	require.Equal(t, httpapi.LoginPagePath, response.Request.URL.Path)

	_, body := harness.get(t, harness.client, httpapi.DashboardPagePath)
	require.Contains(t, body, dashboard.MessageLoginRequired)
}

func TestGenerateWebsiteRefreshesListing(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)

	response, body := harness.post(t, harness.client, httpapi.WebsitesPath, url.Values{"business_type": {testBusinessType}, "industry": {testIndustry}})

	require.Equal(t, httpapi.DashboardPagePath, response.Request.URL.Path)
	require.Contains(t, body, testutil.BuilderMessageWebsiteCreated)
	require.Contains(t, body, "/dashboard/websites/"+harness.builderAPI.LastGeneratedWebsiteID()+"/edit")
}

func TestGenerateWebsiteFailureIsShown(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)

	_, body := harness.post(t, harness.client, httpapi.WebsitesPath, url.Values{"business_type": {testBusinessType}})

	require.Contains(t, body, "Business type and industry are required")
	require.Contains(t, body, "sitedash-notice__item--error")
}

func TestDeleteWebsiteRequiresConfirmation(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	editorID := harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	websiteID := harness.builderAPI.AddWebsite(editorID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})
	harness.login(t, testEditorEmail)
	deletePath := "/dashboard/websites/" + websiteID + "/delete"
	apiDeletePath := "/api/" + websiteID

	_, confirmBody := harness.get(t, harness.client, deletePath)
	require.Contains(t, html.UnescapeString(confirmBody), dashboard.MessageConfirmDeleteWebsite)
	require.Contains(t, confirmBody, confirmYesToken)
	require.Zero(t, harness.builderAPI.CountRequests(http.MethodDelete, apiDeletePath))

	_, declinedBody := harness.post(t, harness.client, deletePath, url.Values{})
	require.Zero(t, harness.builderAPI.CountRequests(http.MethodDelete, apiDeletePath))
	require.True(t, harness.builderAPI.HasWebsite(websiteID))
	require.Contains(t, declinedBody, websiteID)

	_, deletedBody := harness.post(t, harness.client, deletePath, url.Values{"confirm": {"yes"}})
	require.Equal(t, 1, harness.builderAPI.CountRequests(http.MethodDelete, apiDeletePath))
	require.False(t, harness.builderAPI.HasWebsite(websiteID))
	require.Contains(t, deletedBody, dashboard.MessageWebsiteDeleted)
	require.Contains(t, deletedBody, dashboard.MessageNoWebsites)
}

func TestDeleteWebsiteFailureKeepsRow(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	editorID := harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	websiteID := harness.builderAPI.AddWebsite(editorID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})
	harness.builderAPI.FailRoute(http.MethodDelete, "/api/"+websiteID, http.StatusInternalServerError, "storage offline")
	harness.login(t, testEditorEmail)

	_, body := harness.post(t, harness.client, "/dashboard/websites/"+websiteID+"/delete", url.Values{"confirm": {"yes"}})

	require.Contains(t, body, "Failed to delete website: storage offline")
	require.Contains(t, body, "/dashboard/websites/"+websiteID+"/edit")
}

func TestEditWebsiteRoundTrip(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)
	harness.post(t, harness.client, httpapi.WebsitesPath, url.Values{"business_type": {testBusinessType}, "industry": {testIndustry}})
	websiteID := harness.builderAPI.LastGeneratedWebsiteID()

	_, editBody := harness.get(t, harness.client, "/dashboard/websites/"+websiteID+"/edit")
	require.Contains(t, editBody, `value="Welcome to bakery"`)
	require.Contains(t, editBody, `value="hello@example.com"`)

	response, body := harness.post(t, harness.client, "/dashboard/websites/"+websiteID, url.Values{
		"title":           {"Bakery & Cafe"},
		"hero_heading":    {"Fresh bread"},
		"hero_subheading": {"Every morning"},
		"about_heading":   {"Our story"},
		"about_text":      {"Three generations"},
		"contact_email":   {"cafe@example.com"},
		"contact_phone":   {"556"},
		"contact_address": {"2 Main St"},
	})
	require.Equal(t, httpapi.DashboardPagePath, response.Request.URL.Path)
	require.Contains(t, body, testutil.BuilderMessageWebsiteUpdated)

	rawContent, found := harness.builderAPI.WebsiteContentJSON(websiteID)
	require.True(t, found)
	var stored model.WebsiteContent
	require.NoError(t, json.Unmarshal(rawContent, &stored))
	require.Equal(t, "Bakery & Cafe", stored.Title)
	require.Equal(t, "A storefront for bakery", stored.HeroSection.ImageDescription)
	require.JSONEq(t, `{"heading":"Services","items":[{"title":"Consulting","description":"Expert advice"}]}`, string(stored.ServicesSection))
}

func TestEditWebsiteWarnsAboutPartialUpdate(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	editorID := harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	websiteID := harness.builderAPI.AddWebsite(editorID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})
	harness.login(t, testEditorEmail)
	harness.builderAPI.FailRoute(http.MethodGet, "/api/"+websiteID, http.StatusInternalServerError, "database unavailable")

	_, body := harness.post(t, harness.client, "/dashboard/websites/"+websiteID, url.Values{"title": {"Renamed"}})

	require.Contains(t, body, dashboard.MessagePartialUpdate)
	require.Contains(t, body, testutil.BuilderMessageWebsiteUpdated)
}

func TestEditWebsiteFailureRerendersForm(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	otherID := harness.builderAPI.AddUser(testOtherEditorEmail, testPassword, model.RoleEditor)
	websiteID := harness.builderAPI.AddWebsite(otherID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})
	harness.login(t, testEditorEmail)

	response, body := harness.post(t, harness.client, "/dashboard/websites/"+websiteID, url.Values{"title": {"Hijacked"}})

	require.Equal(t, "/dashboard/websites/"+websiteID, response.Request.URL.Path)
	require.Contains(t, body, `id="edit-error"`)
	require.Contains(t, body, testutil.BuilderMessagePermissionDenied)
	require.Contains(t, body, `value="Hijacked"`)
}

func TestExpiredSessionRedirectsThroughNotice(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)
	harness.builderAPI.FailRoute(http.MethodGet, "/api/", http.StatusUnauthorized, testutil.BuilderMessageTokenExpired)

	response, _ := harness.get(t, harness.withoutRedirects(), httpapi.DashboardPagePath)
	require.Equal(t, http.StatusSeeOther, response.StatusCode)
	require.Equal(t, httpapi.SessionExpiredPath, response.Header.Get("Location"))

	_, expiredBody := harness.get(t, harness.withoutRedirects(), httpapi.SessionExpiredPath)
	require.Contains(t, expiredBody, dashboard.MessageSessionExpired)
	require.Contains(t, expiredBody, `content="3;url=/login"`)

	harness.builderAPI.ClearFailures()
	requestsBefore := harness.builderAPI.RequestCount()
	_, dashboardBody := harness.get(t, harness.client, httpapi.DashboardPagePath)
	require.Contains(t, dashboardBody, dashboard.MessageLoginRequired)
	require.Equal(t, requestsBefore, harness.builderAPI.RequestCount())
}

func TestProtectedActionsRequireLogin(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)

	response, body := harness.post(t, harness.client, httpapi.WebsitesPath, url.Values{"business_type": {testBusinessType}, "industry": {testIndustry}})

	require.Equal(t, httpapi.LoginPagePath, response.Request.URL.Path)
	require.Contains(t, body, dashboard.MessageLoginRequired)
	require.Zero(t, harness.builderAPI.RequestCount())
}

func TestAdminPageManagesUsers(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	adminID := harness.builderAPI.AddUser(testAdminEmail, testPassword, model.RoleAdmin)
	editorID := harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testAdminEmail)

	_, adminBody := harness.get(t, harness.client, httpapi.AdminPagePath)
	require.Contains(t, adminBody, `id="users-table"`)
	require.Contains(t, adminBody, `data-user-id="`+adminID+`"`)
	require.NotContains(t, adminBody, "/admin/users/"+adminID+"/role")
	require.Contains(t, adminBody, "/admin/users/"+editorID+"/role")

	_, assignedBody := harness.post(t, harness.client, "/admin/users/"+editorID+"/role", url.Values{"role": {string(model.RoleViewer)}})
	require.Contains(t, assignedBody, testutil.BuilderMessageRoleUpdated)
	role, _ := harness.builderAPI.UserRole(editorID)
	require.Equal(t, model.RoleViewer, role)

	harness.post(t, harness.client, "/admin/users/"+editorID+"/delete", url.Values{})
	_, stillExists := harness.builderAPI.UserRole(editorID)
	require.True(t, stillExists)

	_, deletedBody := harness.post(t, harness.client, "/admin/users/"+editorID+"/delete", url.Values{"confirm": {"yes"}})
	require.Contains(t, deletedBody, dashboard.MessageUserDeleted)
	_, stillExists = harness.builderAPI.UserRole(editorID)
	require.False(t, stillExists)
}

func TestAdminPageReportsDeniedAccess(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	harness.login(t, testEditorEmail)

	_, body := harness.get(t, harness.client, httpapi.AdminPagePath)

	require.Contains(t, body, "Error loading users: Permission denied")
	require.NotContains(t, body, adminLinkToken)
}

func TestLoginRateLimiterRejectsBursts(t *testing.T) {
	harness := newWebHarness(t, 2)
	credentials := url.Values{"email": {testEditorEmail}, "password": {"wrong"}}

	first, _ := harness.post(t, harness.client, httpapi.LoginPagePath, credentials)
	second, _ := harness.post(t, harness.client, httpapi.LoginPagePath, credentials)
	third, thirdBody := harness.post(t, harness.client, httpapi.LoginPagePath, credentials)

	require.Equal(t, http.StatusOK, first.StatusCode)
	require.Equal(t, http.StatusOK, second.StatusCode)
	require.Equal(t, http.StatusTooManyRequests, third.StatusCode)
	require.Contains(t, thirdBody, "too_many_requests")
	require.Equal(t, 2, harness.builderAPI.CountRequests(http.MethodPost, "/auth/login"))

	loginPage, _ := harness.get(t, harness.client, httpapi.LoginPagePath)
	require.Equal(t, http.StatusOK, loginPage.StatusCode)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)

	response, _ := harness.get(t, harness.client, httpapi.LoginPagePath)
	require.NotEmpty(t, response.Header.Get("X-Request-ID"))

	request, requestErr := http.NewRequest(http.MethodGet, harness.server.URL+httpapi.LoginPagePath, nil)
	require.NoError(t, requestErr)
	request.Header.Set("X-Request-ID", "fixed-id")
	echoed, echoErr := harness.client.Do(request)
	require.NoError(t, echoErr)
	readBody(t, echoed)
	require.Equal(t, "fixed-id", echoed.Header.Get("X-Request-ID"))
}

func TestViewJSONHonorsAllowedOrigins(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testViewerEmail, testPassword, model.RoleViewer)
	harness.login(t, testViewerEmail)

	allowedRequest, allowedErr := http.NewRequest(http.MethodGet, harness.server.URL+httpapi.ViewAPIPath, nil)
	require.NoError(t, allowedErr)
	allowedRequest.Header.Set("Origin", testAllowedOrigin)
	allowedResponse, doErr := harness.client.Do(allowedRequest)
	require.NoError(t, doErr)
	allowedBody := readBody(t, allowedResponse)
	require.Equal(t, http.StatusOK, allowedResponse.StatusCode)
	require.Equal(t, testAllowedOrigin, allowedResponse.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", allowedResponse.Header.Get("Access-Control-Allow-Credentials"))

	var view struct {
		Authenticated       bool   `json:"authenticated"`
		Role                string `json:"role"`
		ShowGenerateSection bool   `json:"show_generate_section"`
		ShowAdminLink       bool   `json:"show_admin_link"`
		WebsitesMessage     string `json:"websites_message"`
	}
	require.NoError(t, json.Unmarshal([]byte(allowedBody), &view))
	require.True(t, view.Authenticated)
	require.Equal(t, string(model.RoleViewer), view.Role)
	require.False(t, view.ShowGenerateSection)
	require.False(t, view.ShowAdminLink)
	require.Equal(t, dashboard.MessageNoWebsites, view.WebsitesMessage)

	deniedRequest, deniedErr := http.NewRequest(http.MethodGet, harness.server.URL+httpapi.ViewAPIPath, nil)
	require.NoError(t, deniedErr)
	deniedRequest.Header.Set("Origin", testDisallowedOrigin)
	deniedResponse, deniedDoErr := harness.client.Do(deniedRequest)
	require.NoError(t, deniedDoErr)
	readBody(t, deniedResponse)
	require.Equal(t, http.StatusForbidden, deniedResponse.StatusCode)
	require.Empty(t, deniedResponse.Header.Get("Access-Control-Allow-Origin"))
}

func TestViewJSONForAnonymousVisitor(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)

	response, body := harness.get(t, harness.client, httpapi.ViewAPIPath)

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.JSONEq(t, `{
		"authenticated": false,
		"auth_message": "`+dashboard.MessageLoginRequired+`",
		"show_generate_section": false,
		"show_admin_link": false,
		"websites": [],
		"websites_error": false,
		"session_expired": false
	}`, body)
}

func TestConstructorsValidateDependencies(t *testing.T) {
	_, shortSecretErr := httpapi.NewSessionManager(httpapi.SessionConfig{Secret: []byte("short")}, nil)
	require.ErrorIs(t, shortSecretErr, httpapi.ErrShortSessionSecret)

	sessions, sessionsErr := httpapi.NewSessionManager(httpapi.SessionConfig{Secret: []byte(testSessionSecret)}, nil)
	require.NoError(t, sessionsErr)

	_, missingClientErr := httpapi.NewWebHandlers(httpapi.WebConfig{Sessions: sessions})
	require.ErrorIs(t, missingClientErr, httpapi.ErrMissingClient)

	_, missingSessionsErr := httpapi.NewWebHandlers(httpapi.WebConfig{Client: api.NewClient("", nil, nil)})
	require.ErrorIs(t, missingSessionsErr, httpapi.ErrMissingSessions)
}
