package httpapi

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/dashboard"
	"github.com/MarkoPoloResearchLab/sitedash/pkg/notice"
)

const (
	sessionCookieName         = "sitedash_session"
	sessionKeyAccessToken     = "access_token"
	sessionMaxAge             = 7 * 24 * time.Hour
	minimumSessionSecretBytes = 32

	errorMessageShortSessionSecret = "httpapi: session secret must be at least 32 bytes"

	logEventLoadSession = "load_session"
	logEventSaveSession = "save_session"
)

// ErrShortSessionSecret indicates the cookie signing secret is too short.
var ErrShortSessionSecret = errors.New(errorMessageShortSessionSecret)

func init() {
	gob.Register(notice.Message{})
}

// SessionConfig configures the signed cookie holding the access token.
type SessionConfig struct {
	Secret []byte
	Secure bool
}

// SessionManager loads the per-request cookie session.
type SessionManager struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

// NewSessionManager builds a cookie store signed and encrypted with the configured secret.
func NewSessionManager(configuration SessionConfig, logger *zap.Logger) (*SessionManager, error) {
	if len(configuration.Secret) < minimumSessionSecretBytes {
		return nil, ErrShortSessionSecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hashKey := configuration.Secret
	encryptionKey := configuration.Secret[:minimumSessionSecretBytes]
	store := sessions.NewCookieStore(hashKey, encryptionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   configuration.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, logger: logger}, nil
}

// requestSession adapts one cookie session to the dashboard collaborators: it stores the token,
// queues notices as flashes and records where the user should be sent next.
type requestSession struct {
	mutex       sync.Mutex
	session     *sessions.Session
	request     *http.Request
	writer      http.ResponseWriter
	logger      *zap.Logger
	destination dashboard.Destination
	delay       time.Duration
	navigated   bool
}

func (manager *SessionManager) load(context *gin.Context) *requestSession {
	session, loadErr := manager.store.Get(context.Request, sessionCookieName)
	if loadErr != nil {
		// A tampered or stale cookie yields a fresh session.
		manager.logger.Warn(logEventLoadSession, zap.Error(loadErr))
	}
	return &requestSession{
		session: session,
		request: context.Request,
		writer:  context.Writer,
		logger:  manager.logger,
	}
}

func (current *requestSession) Token(context.Context) (string, error) {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	token, _ := current.session.Values[sessionKeyAccessToken].(string)
	return token, nil
}

func (current *requestSession) SetToken(_ context.Context, token string) error {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	current.session.Values[sessionKeyAccessToken] = token
	return nil
}

func (current *requestSession) ClearToken(context.Context) error {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	delete(current.session.Values, sessionKeyAccessToken)
	return nil
}

func (current *requestSession) Notify(_ context.Context, message notice.Message) {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	current.session.AddFlash(message)
}

func (current *requestSession) Navigate(_ context.Context, destination dashboard.Destination, delay time.Duration) {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	current.destination = destination
	current.delay = delay
	current.navigated = true
}

func (current *requestSession) pendingNavigation() (dashboard.Destination, time.Duration, bool) {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	return current.destination, current.delay, current.navigated
}

// takeNotices removes and returns the queued notices.
func (current *requestSession) takeNotices() []notice.Message {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	flashes := current.session.Flashes()
	messages := make([]notice.Message, 0, len(flashes))
	for _, flash := range flashes {
		if message, ok := flash.(notice.Message); ok {
			messages = append(messages, message)
		}
	}
	return messages
}

// save writes the cookie. It must run before the response body is written.
func (current *requestSession) save() {
	current.mutex.Lock()
	defer current.mutex.Unlock()
	if saveErr := current.session.Save(current.request, current.writer); saveErr != nil {
		current.logger.Error(logEventSaveSession, zap.Error(saveErr))
	}
}

// formConfirmer answers the confirmation question with the value posted by the confirm page.
type formConfirmer struct {
	confirmed bool
}

func (confirmer formConfirmer) Confirm(context.Context, string) bool {
	return confirmer.confirmed
}
