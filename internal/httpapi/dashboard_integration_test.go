package httpapi_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/testutil"
)

const (
	integrationTestTimeout               = 35 * time.Second
	headlessBrowserSkipReason            = "chromedp headless browser not available"
	headlessBrowserLocateErrorMessage    = "locate headless browser executable"
	headlessBrowserEnvironmentChromedp   = "CHROMEDP_BROWSER"
	headlessBrowserEnvironmentChromePath = "CHROME_PATH"

	loginEmailSelector      = "#login-email"
	loginPasswordSelector   = "#login-password"
	loginSubmitSelector     = "#login-submit"
	websitesSectionSelector = "#websites-section"
	businessTypeSelector    = "#business-type"
	industrySelector        = "#industry"
	generateSubmitSelector  = "#generate-submit"
	websiteDeleteSelector   = "a.website-delete"
	confirmYesSelector      = "#sitedash-confirm-yes"
	websitesMessageSelector = "#websites-message"
	noticesSelector         = "#sitedash-notices"
	generateSectionPresence = `document.getElementById("generate-section") !== null`
	adminLinkPresence       = `document.getElementById("nav-admin") !== null`
)

var (
	errHeadlessBrowserNotFound     = errors.New("headless browser executable not found")
	headlessBrowserExecutableNames = []string{
		"chromium",
		"chromium-browser",
		"google-chrome",
		"google-chrome-stable",
		"chrome",
		"headless-shell",
	}
)

func TestDashboardIntegrationViewerSeesReadOnlyListing(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	viewerID := harness.builderAPI.AddUser(testViewerEmail, testPassword, model.RoleViewer)
	harness.builderAPI.AddWebsite(viewerID, testBusinessType, testIndustry, model.WebsiteContent{Title: "Bakery"})
	browserContext := buildHeadlessBrowserContext(t)

	var generateSectionShown bool
	var adminLinkShown bool
	var websitesText string
	runErr := chromedp.Run(browserContext,
		chromedp.Navigate(harness.server.URL+"/login"),
		chromedp.WaitVisible(loginEmailSelector, chromedp.ByQuery),
		chromedp.SetValue(loginEmailSelector, testViewerEmail, chromedp.ByQuery),
		chromedp.SetValue(loginPasswordSelector, testPassword, chromedp.ByQuery),
		chromedp.Click(loginSubmitSelector, chromedp.ByQuery),
		chromedp.WaitVisible(websitesSectionSelector, chromedp.ByQuery),
		chromedp.Evaluate(generateSectionPresence, &generateSectionShown),
		chromedp.Evaluate(adminLinkPresence, &adminLinkShown),
		chromedp.Text(websitesSectionSelector, &websitesText, chromedp.ByQuery),
	)
	require.NoError(t, runErr)
	require.False(t, generateSectionShown)
	require.False(t, adminLinkShown)
	require.Contains(t, websitesText, testBusinessType)
	require.NotContains(t, websitesText, "Edit")
}

func TestDashboardIntegrationEditorGeneratesAndDeletes(t *testing.T) {
	harness := newWebHarness(t, testLoginRateLimit)
	harness.builderAPI.AddUser(testEditorEmail, testPassword, model.RoleEditor)
	browserContext := buildHeadlessBrowserContext(t)

	var generatedNotice string
	runErr := chromedp.Run(browserContext,
		chromedp.Navigate(harness.server.URL+"/login"),
		chromedp.WaitVisible(loginEmailSelector, chromedp.ByQuery),
		chromedp.SetValue(loginEmailSelector, testEditorEmail, chromedp.ByQuery),
		chromedp.SetValue(loginPasswordSelector, testPassword, chromedp.ByQuery),
		chromedp.Click(loginSubmitSelector, chromedp.ByQuery),
		chromedp.WaitVisible(businessTypeSelector, chromedp.ByQuery),
		chromedp.SetValue(businessTypeSelector, testBusinessType, chromedp.ByQuery),
		chromedp.SetValue(industrySelector, testIndustry, chromedp.ByQuery),
		chromedp.Click(generateSubmitSelector, chromedp.ByQuery),
		chromedp.WaitVisible(websiteDeleteSelector, chromedp.ByQuery),
		chromedp.Text(noticesSelector, &generatedNotice, chromedp.ByQuery),
	)
	require.NoError(t, runErr)
	require.Contains(t, generatedNotice, testutil.BuilderMessageWebsiteCreated)
	websiteID := harness.builderAPI.LastGeneratedWebsiteID()
	require.True(t, harness.builderAPI.HasWebsite(websiteID))

	var emptyListingText string
	deleteErr := chromedp.Run(browserContext,
		chromedp.Click(websiteDeleteSelector, chromedp.ByQuery),
		chromedp.WaitVisible(confirmYesSelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(context.Context) error {
			if harness.builderAPI.CountRequests(http.MethodDelete, "/api/"+websiteID) != 0 {
				return errors.New("website deleted before confirmation")
			}
			return nil
		}),
		chromedp.Click(confirmYesSelector, chromedp.ByQuery),
		chromedp.WaitVisible(websitesMessageSelector, chromedp.ByQuery),
		chromedp.Text(websitesMessageSelector, &emptyListingText, chromedp.ByQuery),
	)
	require.NoError(t, deleteErr)
	require.Equal(t, dashboard.MessageNoWebsites, strings.TrimSpace(emptyListingText))
	require.False(t, harness.builderAPI.HasWebsite(websiteID))
}

func locateHeadlessBrowserExecutable() (string, error) {
	environmentVariableNames := []string{
		headlessBrowserEnvironmentChromedp,
		headlessBrowserEnvironmentChromePath,
	}

	for _, environmentVariableName := range environmentVariableNames {
		environmentValue := strings.TrimSpace(os.Getenv(environmentVariableName))
		if environmentValue == "" {
			continue
		}
		return environmentValue, nil
	}

	for _, executableName := range headlessBrowserExecutableNames {
		executablePath, lookupErr := exec.LookPath(executableName)
		if lookupErr == nil {
			return executablePath, nil
		}
	}

	return "", fmt.Errorf("%s: %w", headlessBrowserLocateErrorMessage, errHeadlessBrowserNotFound)
}

func buildHeadlessBrowserContext(testingT *testing.T) context.Context {
	testingT.Helper()

	browserExecutablePath, locateBrowserErr := locateHeadlessBrowserExecutable()
	if locateBrowserErr != nil {
		testingT.Skipf("%s: %v", headlessBrowserSkipReason, locateBrowserErr)
	}

	headlessAllocatorOptions := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserExecutablePath),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(context.Background(), headlessAllocatorOptions...)
	testingT.Cleanup(allocatorCancel)

	browserContext, browserCancel := chromedp.NewContext(allocatorContext)
	testingT.Cleanup(browserCancel)

	contextWithTimeout, timeoutCancel := context.WithTimeout(browserContext, integrationTestTimeout)
	testingT.Cleanup(timeoutCancel)

	return contextWithTimeout
}
