package testutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/storage"
)

const (
	builderSigningKey           = "builder-api-test-signing-key"
	builderTokenLifetime        = time.Hour
	builderJSONKeyMessage       = "msg"
	builderAuthorizationPrefix  = "Bearer "
	builderHeaderAuthorization  = "Authorization"
	builderPermissionCreateSite = "create_site"
	builderPermissionReadSite   = "read_site"
	builderPermissionUpdateSite = "update_site"
	builderPermissionDeleteSite = "delete_site"
	builderPermissionListSites  = "list_all_sites"
	builderPermissionReadUser   = "read_user"
	builderPermissionDeleteUser = "delete_user"
	builderPermissionAssignRole = "assign_role"

	// BuilderMessageMissingAuthorization mirrors the API response for requests without a token.
	BuilderMessageMissingAuthorization = "Missing Authorization Header or Token"
	// BuilderMessageTokenExpired mirrors the API response for expired tokens.
	BuilderMessageTokenExpired = "Token has expired"
	// BuilderMessageTokenMalformed mirrors the API response for tokens that fail verification.
	BuilderMessageTokenMalformed = "Signature verification failed or token is malformed"
	// BuilderMessageInvalidCredentials mirrors the API response for a failed login.
	BuilderMessageInvalidCredentials = "Invalid credentials"
	// BuilderMessageWebsiteCreated mirrors the API response for a generated website.
	BuilderMessageWebsiteCreated = "Website created successfully"
	// BuilderMessageWebsiteUpdated mirrors the API response for an updated website.
	BuilderMessageWebsiteUpdated = "Website updated successfully"
	// BuilderMessageWebsiteDeleted mirrors the API response for a deleted website.
	BuilderMessageWebsiteDeleted = "Website deleted successfully"
	// BuilderMessageWebsiteNotFound mirrors the API response for an unknown website.
	BuilderMessageWebsiteNotFound = "Website not found"
	// BuilderMessagePermissionDenied mirrors the API response for ownership violations.
	BuilderMessagePermissionDenied = "Permission denied"
	// BuilderMessageUserCreated mirrors the API response for a new account.
	BuilderMessageUserCreated = "User created successfully"
	// BuilderMessageRoleUpdated mirrors the API response for a role change.
	BuilderMessageRoleUpdated = "User role updated successfully"
	// BuilderMessageUserDeleted mirrors the API response for a removed account.
	BuilderMessageUserDeleted = "User deleted successfully"
)

var builderRolePermissions = map[model.Role][]string{
	model.RoleAdmin: {
		builderPermissionReadUser, builderPermissionDeleteUser, builderPermissionAssignRole,
		builderPermissionCreateSite, builderPermissionReadSite, builderPermissionUpdateSite,
		builderPermissionDeleteSite, builderPermissionListSites,
	},
	model.RoleEditor: {
		builderPermissionCreateSite, builderPermissionReadSite, builderPermissionUpdateSite,
		builderPermissionDeleteSite, builderPermissionListSites,
	},
	model.RoleViewer: {
		builderPermissionReadSite, builderPermissionListSites,
	},
}

type builderIdentity struct {
	ID   string     `json:"id"`
	Role model.Role `json:"role"`
}

type builderClaims struct {
	User builderIdentity `json:"user"`
	jwt.RegisteredClaims
}

type builderAccount struct {
	ID        string
	Email     string
	Password  string
	Role      model.Role
	CreatedAt time.Time
}

type builderWebsite struct {
	ID           string
	OwnerID      string
	BusinessType string
	Industry     string
	Content      map[string]json.RawMessage
}

type builderForcedFailure struct {
	StatusCode int
	Body       string
}

// RecordedRequest captures one request received by the fake builder API.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

// BuilderAPIServer is an in-memory stand-in for the website builder API.
type BuilderAPIServer struct {
	server     *httptest.Server
	signingKey []byte

	mutex           sync.Mutex
	accounts        map[string]*builderAccount
	websites        map[string]*builderWebsite
	websiteOrder    []string
	recorded        []RecordedRequest
	forcedFailures  map[string]builderForcedFailure
	lastGeneratedID string
}

// NewBuilderAPIServer starts a fake builder API that is closed when the test ends.
func NewBuilderAPIServer(testingT *testing.T) *BuilderAPIServer {
	testingT.Helper()
	gin.SetMode(gin.TestMode)

	apiServer := &BuilderAPIServer{
		signingKey:     []byte(builderSigningKey),
		accounts:       make(map[string]*builderAccount),
		websites:       make(map[string]*builderWebsite),
		forcedFailures: make(map[string]builderForcedFailure),
	}

	router := gin.New()
	router.Use(apiServer.recordRequest, apiServer.applyForcedFailure)
	router.POST("/auth/signup", apiServer.signup)
	router.POST("/auth/login", apiServer.login)

	router.POST("/api/generate", apiServer.requirePermission(builderPermissionCreateSite), apiServer.generateWebsite)
	router.GET("/api/", apiServer.requirePermission(builderPermissionListSites), apiServer.listWebsites)
	router.GET("/api/:id", apiServer.requirePermission(builderPermissionReadSite), apiServer.getWebsite)
	router.PUT("/api/:id", apiServer.requirePermission(builderPermissionUpdateSite), apiServer.updateWebsite)
	router.DELETE("/api/:id", apiServer.requirePermission(builderPermissionDeleteSite), apiServer.deleteWebsite)

	router.GET("/admin/users", apiServer.requirePermission(builderPermissionReadUser), apiServer.listUsers)
	router.PUT("/admin/assign-role", apiServer.requirePermission(builderPermissionAssignRole), apiServer.assignRole)
	router.DELETE("/admin/users/:id", apiServer.requirePermission(builderPermissionDeleteUser), apiServer.deleteUser)

	router.GET("/preview/:id", apiServer.preview)

	apiServer.server = httptest.NewServer(router)
	testingT.Cleanup(apiServer.server.Close)
	return apiServer
}

// URL returns the base URL of the fake API.
func (apiServer *BuilderAPIServer) URL() string {
	return apiServer.server.URL
}

// AddUser registers an account and returns its identifier.
func (apiServer *BuilderAPIServer) AddUser(email string, password string, role model.Role) string {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	return apiServer.addAccountLocked(email, password, role)
}

// IssueToken mints a signed access token carrying the given identity.
func (apiServer *BuilderAPIServer) IssueToken(userID string, role model.Role) string {
	return apiServer.issueToken(userID, role, time.Now().Add(builderTokenLifetime))
}

// IssueExpiredToken mints a signed access token whose expiry already passed.
func (apiServer *BuilderAPIServer) IssueExpiredToken(userID string, role model.Role) string {
	return apiServer.issueToken(userID, role, time.Now().Add(-builderTokenLifetime))
}

// AddWebsite stores a website owned by ownerID and returns its identifier.
func (apiServer *BuilderAPIServer) AddWebsite(ownerID string, businessType string, industry string, content model.WebsiteContent) string {
	encodedContent, encodeErr := json.Marshal(content)
	if encodeErr != nil {
		panic(encodeErr)
	}
	return apiServer.AddWebsiteJSON(ownerID, businessType, industry, encodedContent)
}

// AddWebsiteJSON stores a website with raw JSON content and returns its identifier.
func (apiServer *BuilderAPIServer) AddWebsiteJSON(ownerID string, businessType string, industry string, rawContent json.RawMessage) string {
	contentFields := make(map[string]json.RawMessage)
	if len(rawContent) > 0 {
		if decodeErr := json.Unmarshal(rawContent, &contentFields); decodeErr != nil {
			panic(decodeErr)
		}
	}

	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	return apiServer.addWebsiteLocked(ownerID, businessType, industry, contentFields)
}

// WebsiteContentJSON returns the stored content of a website as a JSON object.
func (apiServer *BuilderAPIServer) WebsiteContentJSON(websiteID string) (json.RawMessage, bool) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	website, exists := apiServer.websites[websiteID]
	if !exists {
		return nil, false
	}
	encoded, encodeErr := json.Marshal(website.Content)
	if encodeErr != nil {
		return nil, false
	}
	return encoded, true
}

// HasWebsite reports whether the website exists.
func (apiServer *BuilderAPIServer) HasWebsite(websiteID string) bool {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	_, exists := apiServer.websites[websiteID]
	return exists
}

// UserRole returns the current role of an account.
func (apiServer *BuilderAPIServer) UserRole(userID string) (model.Role, bool) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	account, exists := apiServer.accounts[userID]
	if !exists {
		return "", false
	}
	return account.Role, true
}

// LastGeneratedWebsiteID returns the identifier of the most recently generated website.
func (apiServer *BuilderAPIServer) LastGeneratedWebsiteID() string {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	return apiServer.lastGeneratedID
}

// FailRoute makes every request to method and path answer with statusCode and a msg body.
// An empty message produces a body without msg.
func (apiServer *BuilderAPIServer) FailRoute(method string, path string, statusCode int, message string) {
	body := "{}"
	if message != "" {
		encoded, _ := json.Marshal(map[string]string{builderJSONKeyMessage: message})
		body = string(encoded)
	}
	apiServer.FailRouteRaw(method, path, statusCode, body)
}

// FailRouteRaw makes every request to method and path answer with statusCode and the raw body.
func (apiServer *BuilderAPIServer) FailRouteRaw(method string, path string, statusCode int, body string) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	apiServer.forcedFailures[method+" "+path] = builderForcedFailure{StatusCode: statusCode, Body: body}
}

// ClearFailures removes every forced failure.
func (apiServer *BuilderAPIServer) ClearFailures() {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	apiServer.forcedFailures = make(map[string]builderForcedFailure)
}

// Requests returns a copy of every request received so far.
func (apiServer *BuilderAPIServer) Requests() []RecordedRequest {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	recorded := make([]RecordedRequest, len(apiServer.recorded))
	copy(recorded, apiServer.recorded)
	return recorded
}

// RequestCount returns how many requests were received so far.
func (apiServer *BuilderAPIServer) RequestCount() int {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	return len(apiServer.recorded)
}

// CountRequests returns how many requests matched method and path.
func (apiServer *BuilderAPIServer) CountRequests(method string, path string) int {
	count := 0
	for _, recorded := range apiServer.Requests() {
		if recorded.Method == method && recorded.Path == path {
			count++
		}
	}
	return count
}

func (apiServer *BuilderAPIServer) issueToken(userID string, role model.Role, expiresAt time.Time) string {
	claims := builderClaims{
		User: builderIdentity{ID: userID, Role: role},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signedToken, signErr := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(apiServer.signingKey)
	if signErr != nil {
		panic(signErr)
	}
	return signedToken
}

func (apiServer *BuilderAPIServer) addAccountLocked(email string, password string, role model.Role) string {
	identifier := storage.NewID()
	apiServer.accounts[identifier] = &builderAccount{
		ID:        identifier,
		Email:     email,
		Password:  password,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	return identifier
}

func (apiServer *BuilderAPIServer) addWebsiteLocked(ownerID string, businessType string, industry string, content map[string]json.RawMessage) string {
	identifier := storage.NewID()
	apiServer.websites[identifier] = &builderWebsite{
		ID:           identifier,
		OwnerID:      ownerID,
		BusinessType: businessType,
		Industry:     industry,
		Content:      content,
	}
	apiServer.websiteOrder = append(apiServer.websiteOrder, identifier)
	return identifier
}

func (apiServer *BuilderAPIServer) recordRequest(context *gin.Context) {
	var bodyText string
	if context.Request.Body != nil {
		bodyBytes, _ := io.ReadAll(context.Request.Body)
		bodyText = string(bodyBytes)
		context.Request.Body = io.NopCloser(strings.NewReader(bodyText))
	}
	apiServer.mutex.Lock()
	apiServer.recorded = append(apiServer.recorded, RecordedRequest{
		Method:        context.Request.Method,
		Path:          context.Request.URL.Path,
		Authorization: context.GetHeader(builderHeaderAuthorization),
		RequestID:     context.GetHeader("X-Request-ID"),
		Body:          bodyText,
	})
	apiServer.mutex.Unlock()
	context.Next()
}

func (apiServer *BuilderAPIServer) applyForcedFailure(context *gin.Context) {
	apiServer.mutex.Lock()
	failure, forced := apiServer.forcedFailures[context.Request.Method+" "+context.Request.URL.Path]
	apiServer.mutex.Unlock()
	if !forced {
		context.Next()
		return
	}
	context.Data(failure.StatusCode, "application/json", []byte(failure.Body))
	context.Abort()
}

func (apiServer *BuilderAPIServer) requirePermission(permission string) gin.HandlerFunc {
	return func(context *gin.Context) {
		authorizationHeader := context.GetHeader(builderHeaderAuthorization)
		if !strings.HasPrefix(authorizationHeader, builderAuthorizationPrefix) {
			abortWithMessage(context, http.StatusUnauthorized, BuilderMessageMissingAuthorization)
			return
		}
		tokenText := strings.TrimPrefix(authorizationHeader, builderAuthorizationPrefix)

		claims := &builderClaims{}
		_, parseErr := jwt.ParseWithClaims(tokenText, claims, func(token *jwt.Token) (interface{}, error) {
			return apiServer.signingKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if parseErr != nil {
			if errors.Is(parseErr, jwt.ErrTokenExpired) {
				abortWithMessage(context, http.StatusUnauthorized, BuilderMessageTokenExpired)
				return
			}
			abortWithMessage(context, http.StatusUnauthorized, BuilderMessageTokenMalformed)
			return
		}

		permissions, roleKnown := builderRolePermissions[claims.User.Role]
		if !roleKnown {
			abortWithMessage(context, http.StatusForbidden, fmt.Sprintf("Role '%s' not recognized or has no defined permissions.", claims.User.Role))
			return
		}
		for _, granted := range permissions {
			if granted == permission {
				context.Set("builder_identity", claims.User)
				context.Next()
				return
			}
		}
		abortWithMessage(context, http.StatusForbidden, fmt.Sprintf("Permission denied: Missing '%s' permission for role '%s'", permission, claims.User.Role))
	}
}

func currentIdentity(context *gin.Context) builderIdentity {
	value, _ := context.Get("builder_identity")
	identity, _ := value.(builderIdentity)
	return identity
}

func abortWithMessage(context *gin.Context, statusCode int, message string) {
	context.AbortWithStatusJSON(statusCode, gin.H{builderJSONKeyMessage: message})
}

type builderCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (apiServer *BuilderAPIServer) signup(context *gin.Context) {
	var credentials builderCredentials
	_ = context.ShouldBindJSON(&credentials)
	if credentials.Email == "" || credentials.Password == "" {
		abortWithMessage(context, http.StatusBadRequest, "Email and password are required")
		return
	}

	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	for _, account := range apiServer.accounts {
		if account.Email == credentials.Email {
			abortWithMessage(context, http.StatusBadRequest, "Email already exists")
			return
		}
	}
	identifier := apiServer.addAccountLocked(credentials.Email, credentials.Password, model.RoleViewer)
	context.JSON(http.StatusCreated, gin.H{builderJSONKeyMessage: BuilderMessageUserCreated, "user_id": identifier})
}

func (apiServer *BuilderAPIServer) login(context *gin.Context) {
	var credentials builderCredentials
	_ = context.ShouldBindJSON(&credentials)
	if credentials.Email == "" || credentials.Password == "" {
		abortWithMessage(context, http.StatusBadRequest, "Email and password are required")
		return
	}

	apiServer.mutex.Lock()
	var matched *builderAccount
	for _, account := range apiServer.accounts {
		if account.Email == credentials.Email && account.Password == credentials.Password {
			matched = account
			break
		}
	}
	apiServer.mutex.Unlock()

	if matched == nil {
		abortWithMessage(context, http.StatusUnauthorized, BuilderMessageInvalidCredentials)
		return
	}
	context.JSON(http.StatusOK, gin.H{"access_token": apiServer.IssueToken(matched.ID, matched.Role)})
}

func (apiServer *BuilderAPIServer) generateWebsite(context *gin.Context) {
	var request struct {
		BusinessType string `json:"business_type"`
		Industry     string `json:"industry"`
	}
	_ = context.ShouldBindJSON(&request)
	if request.BusinessType == "" || request.Industry == "" {
		abortWithMessage(context, http.StatusBadRequest, "Business type and industry are required")
		return
	}

	generatedContent := map[string]json.RawMessage{}
	for key, value := range map[string]any{
		"title": request.BusinessType + " " + request.Industry,
		"hero_section": map[string]string{
			"heading":           "Welcome to " + request.BusinessType,
			"subheading":        "Serving the " + request.Industry + " industry",
			"image_description": "A storefront for " + request.BusinessType,
		},
		"about_section":    map[string]string{"heading": "About us", "text": "We are a " + request.BusinessType + "."},
		"services_section": map[string]any{"heading": "Services", "items": []map[string]string{{"title": "Consulting", "description": "Expert advice"}}},
		"contact_section":  map[string]string{"heading": "Contact", "email": "hello@example.com", "phone": "555-0100", "address": "1 Main St"},
		"theme":            map[string]string{"primary_color": "#112233", "font_family": "serif"},
	} {
		encoded, _ := json.Marshal(value)
		generatedContent[key] = encoded
	}

	identity := currentIdentity(context)
	apiServer.mutex.Lock()
	identifier := apiServer.addWebsiteLocked(identity.ID, request.BusinessType, request.Industry, generatedContent)
	apiServer.lastGeneratedID = identifier
	apiServer.mutex.Unlock()
	context.JSON(http.StatusCreated, gin.H{builderJSONKeyMessage: BuilderMessageWebsiteCreated, "id": identifier})
}

func (apiServer *BuilderAPIServer) listWebsites(context *gin.Context) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	summaries := make([]gin.H, 0, len(apiServer.websiteOrder))
	for _, identifier := range apiServer.websiteOrder {
		website, exists := apiServer.websites[identifier]
		if !exists {
			continue
		}
		summaries = append(summaries, gin.H{
			"_id":           website.ID,
			"business_type": website.BusinessType,
			"industry":      website.Industry,
			"owner_id":      website.OwnerID,
		})
	}
	context.JSON(http.StatusOK, summaries)
}

func (apiServer *BuilderAPIServer) getWebsite(context *gin.Context) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	website, exists := apiServer.websites[context.Param("id")]
	if !exists {
		abortWithMessage(context, http.StatusNotFound, BuilderMessageWebsiteNotFound)
		return
	}
	context.JSON(http.StatusOK, gin.H{
		"_id":           website.ID,
		"owner":         website.OwnerID,
		"business_type": website.BusinessType,
		"industry":      website.Industry,
		"content":       website.Content,
		"created_at":    nil,
		"last_updated":  nil,
	})
}

func (apiServer *BuilderAPIServer) updateWebsite(context *gin.Context) {
	var request map[string]json.RawMessage
	if bindErr := context.ShouldBindJSON(&request); bindErr != nil || len(request) == 0 {
		abortWithMessage(context, http.StatusBadRequest, "No data provided for update")
		return
	}
	var contentFields map[string]json.RawMessage
	if rawContent, hasContent := request["content"]; hasContent {
		_ = json.Unmarshal(rawContent, &contentFields)
	}

	identity := currentIdentity(context)
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	website, exists := apiServer.websites[context.Param("id")]
	if !exists {
		abortWithMessage(context, http.StatusNotFound, BuilderMessageWebsiteNotFound)
		return
	}
	if identity.Role == model.RoleEditor && website.OwnerID != identity.ID {
		abortWithMessage(context, http.StatusForbidden, BuilderMessagePermissionDenied)
		return
	}
	for key, value := range contentFields {
		website.Content[key] = value
	}
	context.JSON(http.StatusOK, gin.H{builderJSONKeyMessage: BuilderMessageWebsiteUpdated})
}

func (apiServer *BuilderAPIServer) deleteWebsite(context *gin.Context) {
	identity := currentIdentity(context)
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	websiteID := context.Param("id")
	website, exists := apiServer.websites[websiteID]
	if !exists {
		abortWithMessage(context, http.StatusNotFound, BuilderMessageWebsiteNotFound)
		return
	}
	if identity.Role == model.RoleEditor && website.OwnerID != identity.ID {
		abortWithMessage(context, http.StatusForbidden, BuilderMessagePermissionDenied)
		return
	}
	delete(apiServer.websites, websiteID)
	context.JSON(http.StatusOK, gin.H{builderJSONKeyMessage: BuilderMessageWebsiteDeleted})
}

func (apiServer *BuilderAPIServer) listUsers(context *gin.Context) {
	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	accounts := make([]*builderAccount, 0, len(apiServer.accounts))
	for _, account := range apiServer.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(left int, right int) bool {
		return accounts[left].Email < accounts[right].Email
	})
	users := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, gin.H{
			"_id":        account.ID,
			"email":      account.Email,
			"role":       account.Role,
			"created_at": account.CreatedAt.Format(time.RFC3339),
			"last_login": nil,
		})
	}
	context.JSON(http.StatusOK, users)
}

func (apiServer *BuilderAPIServer) assignRole(context *gin.Context) {
	var request struct {
		UserID string     `json:"user_id"`
		Role   model.Role `json:"role"`
	}
	_ = context.ShouldBindJSON(&request)
	if request.UserID == "" || request.Role == "" {
		abortWithMessage(context, http.StatusBadRequest, "User ID and new role are required")
		return
	}
	if !request.Role.Known() {
		abortWithMessage(context, http.StatusBadRequest, "Invalid role. Allowed roles are: Admin, Editor, Viewer")
		return
	}
	if currentIdentity(context).ID == request.UserID {
		abortWithMessage(context, http.StatusForbidden, "Cannot change your own role via this interface")
		return
	}

	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	account, exists := apiServer.accounts[request.UserID]
	if !exists {
		abortWithMessage(context, http.StatusNotFound, "User not found")
		return
	}
	if account.Role == request.Role {
		context.JSON(http.StatusOK, gin.H{builderJSONKeyMessage: "Role already set to this value or no changes made"})
		return
	}
	account.Role = request.Role
	context.JSON(http.StatusOK, gin.H{builderJSONKeyMessage: BuilderMessageRoleUpdated})
}

func (apiServer *BuilderAPIServer) deleteUser(context *gin.Context) {
	userID := context.Param("id")
	if currentIdentity(context).ID == userID {
		abortWithMessage(context, http.StatusForbidden, "Cannot delete your own user account via this interface")
		return
	}

	apiServer.mutex.Lock()
	defer apiServer.mutex.Unlock()
	if _, exists := apiServer.accounts[userID]; !exists {
		abortWithMessage(context, http.StatusNotFound, "User not found")
		return
	}
	delete(apiServer.accounts, userID)
	context.JSON(http.StatusOK, gin.H{builderJSONKeyMessage: BuilderMessageUserDeleted})
}

func (apiServer *BuilderAPIServer) preview(context *gin.Context) {
	apiServer.mutex.Lock()
	_, exists := apiServer.websites[context.Param("id")]
	apiServer.mutex.Unlock()
	if !exists {
		context.String(http.StatusNotFound, BuilderMessageWebsiteNotFound)
		return
	}
	context.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<!doctype html><title>preview</title>"))
}
