package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the hosted builder API.
	DefaultBaseURL = "https://ai-driven-website-builder.onrender.com"
	// DefaultRequestTimeout bounds a single HTTP exchange at the transport level.
	DefaultRequestTimeout = 30 * time.Second

	// MessageAuthenticationRequired is returned when an authenticated call has no token.
	MessageAuthenticationRequired = "Authentication required. Please log in."
	// MessageNetworkError is returned for transport failures and non-JSON responses.
	MessageNetworkError = "Network error or server unreachable. Please check your connection and ensure the backend server is running."
	// MessageDefaultSuccess is used when a successful response carries no msg field.
	MessageDefaultSuccess = "Success"
	// MessageUnexpectedResponse is returned when a successful payload has the wrong shape.
	MessageUnexpectedResponse = "Unexpected response from server."

	apiErrorMessagePattern = "API Error: %s"

	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
	bearerPrefix        = "Bearer "
	responseKeyMessage  = "msg"
	maxResponseBytes    = 8 << 20

	logEventRequest        = "api_request"
	logEventTransport      = "api_transport"
	logEventDecode         = "api_decode"
	logEventSessionInvalid = "api_session_invalid"
	logFieldMethod         = "method"
	logFieldEndpoint       = "endpoint"
	logFieldStatus         = "status"
	logFieldDuration       = "dur"
	logFieldRequestID      = "request_id"
)

// sessionInvalidMarkers are matched case-sensitively against the msg of 401 and 403 responses.
// "Invalid credentials" deliberately does not match.
var sessionInvalidMarkers = []string{"expired", "invalid", "Missing Authorization"}

// Request describes one call to the builder API. Authentication is required unless SkipAuth is set.
type Request struct {
	Method   string
	Endpoint string
	Body     any
	Token    string
	SkipAuth bool
}

// Result is the uniform outcome of a call. It never carries a Go error; failures are described by Message.
type Result struct {
	Success        bool
	Message        string
	Data           json.RawMessage
	StatusCode     int
	SessionInvalid bool
}

// SessionExpiryHandler reacts to a response that invalidated the current session.
type SessionExpiryHandler func(ctx context.Context, result Result)

// IsSessionInvalid reports whether a response means the stored token can no longer be used.
func IsSessionInvalid(statusCode int, message string) bool {
	if statusCode != http.StatusUnauthorized && statusCode != http.StatusForbidden {
		return false
	}
	if message == "" {
		return false
	}
	for _, marker := range sessionInvalidMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// Client issues requests against the builder API.
type Client struct {
	baseURL              string
	httpClient           *http.Client
	logger               *zap.Logger
	sessionExpiryHandler SessionExpiryHandler
	requestIDGenerator   func() string
}

// NewClient builds a client for baseURL. A nil httpClient uses DefaultRequestTimeout and a nil logger discards logs.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedBaseURL == "" {
		trimmedBaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultRequestTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:            trimmedBaseURL,
		httpClient:         httpClient,
		logger:             logger,
		requestIDGenerator: uuid.NewString,
	}
}

// WithSessionExpiryHandler returns a copy of the client that invokes handler on session-invalid responses.
func (client *Client) WithSessionExpiryHandler(handler SessionExpiryHandler) *Client {
	cloned := *client
	cloned.sessionExpiryHandler = handler
	return &cloned
}

// BaseURL returns the normalized API root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// Request performs a single exchange with the API. It never retries.
func (client *Client) Request(ctx context.Context, request Request) Result {
	if !request.SkipAuth && request.Token == "" {
		return Result{Message: MessageAuthenticationRequired}
	}

	var bodyReader io.Reader
	if request.Body != nil {
		encodedBody, encodeErr := json.Marshal(request.Body)
		if encodeErr != nil {
			client.logger.Warn(logEventDecode, zap.String(logFieldEndpoint, request.Endpoint), zap.Error(encodeErr))
			return Result{Message: MessageNetworkError}
		}
		bodyReader = bytes.NewReader(encodedBody)
	}

	requestID := client.requestIDGenerator()
	httpRequest, buildErr := http.NewRequestWithContext(ctx, request.Method, client.baseURL+request.Endpoint, bodyReader)
	if buildErr != nil {
		client.logger.Warn(logEventTransport, zap.String(logFieldEndpoint, request.Endpoint), zap.Error(buildErr))
		return Result{Message: MessageNetworkError}
	}
	httpRequest.Header.Set(headerContentType, contentTypeJSON)
	httpRequest.Header.Set(headerRequestID, requestID)
	if !request.SkipAuth {
		httpRequest.Header.Set(headerAuthorization, bearerPrefix+request.Token)
	}

	startedAt := time.Now()
	response, transportErr := client.httpClient.Do(httpRequest)
	if transportErr != nil {
		client.logger.Warn(logEventTransport,
			zap.String(logFieldMethod, request.Method),
			zap.String(logFieldEndpoint, request.Endpoint),
			zap.String(logFieldRequestID, requestID),
			zap.Error(transportErr),
		)
		return Result{Message: MessageNetworkError}
	}
	defer response.Body.Close()

	client.logger.Debug(logEventRequest,
		zap.String(logFieldMethod, request.Method),
		zap.String(logFieldEndpoint, request.Endpoint),
		zap.Int(logFieldStatus, response.StatusCode),
		zap.Duration(logFieldDuration, time.Since(startedAt)),
		zap.String(logFieldRequestID, requestID),
	)

	payload, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if readErr != nil || !json.Valid(payload) {
		client.logger.Warn(logEventDecode,
			zap.String(logFieldEndpoint, request.Endpoint),
			zap.Int(logFieldStatus, response.StatusCode),
			zap.String(logFieldRequestID, requestID),
		)
		return Result{Message: MessageNetworkError, StatusCode: response.StatusCode}
	}

	serverMessage := extractMessage(payload)
	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		message := serverMessage
		if message == "" {
			message = MessageDefaultSuccess
		}
		return Result{Success: true, Message: message, Data: payload, StatusCode: response.StatusCode}
	}

	result := Result{Message: serverMessage, Data: payload, StatusCode: response.StatusCode}
	if result.Message == "" {
		result.Message = fmt.Sprintf(apiErrorMessagePattern, statusText(response))
	}
	if IsSessionInvalid(response.StatusCode, serverMessage) {
		result.SessionInvalid = true
		client.logger.Info(logEventSessionInvalid,
			zap.String(logFieldEndpoint, request.Endpoint),
			zap.Int(logFieldStatus, response.StatusCode),
			zap.String(logFieldRequestID, requestID),
		)
		if client.sessionExpiryHandler != nil {
			client.sessionExpiryHandler(ctx, result)
		}
	}
	return result
}

func extractMessage(payload []byte) string {
	var envelope map[string]json.RawMessage
	if json.Unmarshal(payload, &envelope) != nil {
		return ""
	}
	var message string
	if json.Unmarshal(envelope[responseKeyMessage], &message) != nil {
		return ""
	}
	return message
}

func statusText(response *http.Response) string {
	if text := http.StatusText(response.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(response.Status, fmt.Sprint(response.StatusCode)))
}
