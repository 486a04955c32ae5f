package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/api"
	"github.com/MarkoPoloResearchLab/sitedash/internal/auth"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/website"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	// MessageLoginRequired is shown in place of the dashboard when no token is stored.
	MessageLoginRequired = "Please log in to access the dashboard."
	// MessageSessionExpired is shown before the forced redirect to the login page.
	MessageSessionExpired = "Your session has expired or is invalid. Please log in again."
	// SessionExpiryRedirectDelay is how long the expiry notice stays up before the redirect.
	SessionExpiryRedirectDelay = 3 * time.Second

	logEventLoadToken     = "load_token"
	logEventDecodeClaims  = "decode_claims"
	logEventClearToken    = "clear_token"
	logEventSaveToken     = "save_token"
	logEventSessionExpiry = "session_expired"
	logFieldWebsiteID     = "website_id"
	logFieldUserID        = "user_id"
)

// Destination names a place the navigator can send the user.
type Destination string

const (
	// DestinationLogin is the login entry point.
	DestinationLogin Destination = "login"
	// DestinationDashboard is the website dashboard.
	DestinationDashboard Destination = "dashboard"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, message notice.Message)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, question string) bool
}

// Navigator moves the user to another destination, optionally after a delay.
type Navigator interface {
	Navigate(ctx context.Context, destination Destination, delay time.Duration)
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Client     *api.Client
	TokenStore auth.TokenStore
	Notifier   Notifier
	Confirmer  Confirmer
	Navigator  Navigator
	Logger     *zap.Logger
}

// Controller drives the dashboard flows for one user.
type Controller struct {
	client     *api.Client
	tokenStore auth.TokenStore
	notifier   Notifier
	confirmer  Confirmer
	navigator  Navigator
	logger     *zap.Logger
}

// Session is what the controller knows about the current user. Role and UserID come from
// unverified token claims and only decide what is shown.
type Session struct {
	Token    string
	Role     model.Role
	UserID   string
	HasRole  bool
	HasToken bool
}

// View is the decided state of the dashboard page.
type View struct {
	Authenticated       bool
	AuthMessage         string
	Role                model.Role
	UserID              string
	ShowGenerateSection bool
	ShowAdminLink       bool
	Websites            WebsiteList
}

// Outcome reports the result of a user action.
type Outcome struct {
	Success        bool
	Cancelled      bool
	SessionInvalid bool
	Message        string
	Warning        string
	Websites       *WebsiteList
}

// NewController wires a controller. The API client is copied so that session-invalid responses
// clear this controller's token store.
func NewController(dependencies Dependencies) *Controller {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	controller := &Controller{
		tokenStore: dependencies.TokenStore,
		notifier:   dependencies.Notifier,
		confirmer:  dependencies.Confirmer,
		navigator:  dependencies.Navigator,
		logger:     logger,
	}
	controller.client = dependencies.Client.WithSessionExpiryHandler(controller.handleSessionExpiry)
	return controller
}

// Client returns the session-aware API client used by the controller.
func (controller *Controller) Client() *api.Client {
	return controller.client
}

// LoadSession reads the stored token and decodes its claims without contacting the API.
func (controller *Controller) LoadSession(ctx context.Context) Session {
	token, loadErr := controller.tokenStore.Token(ctx)
	if loadErr != nil {
		controller.logger.Warn(logEventLoadToken, zap.Error(loadErr))
		return Session{}
	}
	if token == "" {
		return Session{}
	}

	session := Session{Token: token, HasToken: true}
	claims, claimsErr := auth.ReadClaims(token)
	if claimsErr != nil {
		controller.logger.Debug(logEventDecodeClaims, zap.Error(claimsErr))
		return session
	}
	session.Role = claims.User.Role
	session.HasRole = claims.User.Role != ""
	session.UserID = claims.User.ID
	return session
}

// Start loads the session and decides the dashboard view. Without a token nothing is fetched.
func (controller *Controller) Start(ctx context.Context) (Session, View) {
	session := controller.LoadSession(ctx)
	if !session.HasToken {
		return session, View{AuthMessage: MessageLoginRequired}
	}

	view := View{
		Authenticated:       true,
		Role:                session.Role,
		UserID:              session.UserID,
		ShowGenerateSection: website.ShowGenerateSection(session.Role),
		ShowAdminLink:       website.ShowAdminLink(session.Role),
	}
	view.Websites = controller.ListWebsites(ctx, session)
	return session, view
}

func (controller *Controller) handleSessionExpiry(ctx context.Context, result api.Result) {
	controller.logger.Info(logEventSessionExpiry, zap.Int("status", result.StatusCode), zap.String("msg", result.Message))
	if clearErr := controller.tokenStore.ClearToken(ctx); clearErr != nil {
		controller.logger.Error(logEventClearToken, zap.Error(clearErr))
	}
	controller.notify(ctx, notice.KindError, MessageSessionExpired)
	if controller.navigator != nil {
		controller.navigator.Navigate(ctx, DestinationLogin, SessionExpiryRedirectDelay)
	}
}

func (controller *Controller) notify(ctx context.Context, kind notice.Kind, text string) {
	if controller.notifier == nil {
		return
	}
	controller.notifier.Notify(ctx, notice.Message{Kind: kind, Text: text})
}

func (controller *Controller) confirm(ctx context.Context, question string) bool {
	if controller.confirmer == nil {
		return false
	}
	return controller.confirmer.Confirm(ctx, question)
}

func failedOutcome(result api.Result) Outcome {
	return Outcome{Message: result.Message, SessionInvalid: result.SessionInvalid}
}
