package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
)

const (
	endpointSignup         = "/auth/signup"
	endpointLogin          = "/auth/login"
	endpointGenerate       = "/api/generate"
	endpointWebsites       = "/api/"
	endpointWebsitePrefix  = "/api/"
	endpointAssignRole     = "/admin/assign-role"
	endpointUsers          = "/admin/users"
	endpointUserPrefix     = "/admin/users/"
	endpointPreviewPrefix  = "/preview/"
	logEventUnexpectedData = "api_unexpected_payload"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type generateRequest struct {
	BusinessType string `json:"business_type"`
	Industry     string `json:"industry"`
}

type assignRoleRequest struct {
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Signup creates an account. It does not require a token.
func (client *Client) Signup(ctx context.Context, email string, password string) Result {
	return client.Request(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: endpointSignup,
		Body:     credentials{Email: email, Password: password},
		SkipAuth: true,
	})
}

// Login exchanges credentials for an access token. The token is empty unless the result succeeded.
func (client *Client) Login(ctx context.Context, email string, password string) (string, Result) {
	result := client.Request(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: endpointLogin,
		Body:     credentials{Email: email, Password: password},
		SkipAuth: true,
	})
	if !result.Success {
		return "", result
	}
	var decoded loginResponse
	if !client.decodeData(endpointLogin, result, &decoded) || decoded.AccessToken == "" {
		return "", unexpectedResult(result)
	}
	return decoded.AccessToken, result
}

// GenerateWebsite asks the API to create a website for a business type and industry.
func (client *Client) GenerateWebsite(ctx context.Context, token string, businessType string, industry string) Result {
	return client.Request(ctx, Request{
		Method:   http.MethodPost,
		Endpoint: endpointGenerate,
		Body:     generateRequest{BusinessType: businessType, Industry: industry},
		Token:    token,
	})
}

// ListWebsites returns the website rows visible to the token holder.
func (client *Client) ListWebsites(ctx context.Context, token string) ([]model.WebsiteSummary, Result) {
	result := client.Request(ctx, Request{Method: http.MethodGet, Endpoint: endpointWebsites, Token: token})
	if !result.Success {
		return nil, result
	}
	var websites []model.WebsiteSummary
	if !client.decodeData(endpointWebsites, result, &websites) {
		return nil, unexpectedResult(result)
	}
	if websites == nil {
		websites = []model.WebsiteSummary{}
	}
	return websites, result
}

// GetWebsite fetches the full record of one website.
func (client *Client) GetWebsite(ctx context.Context, token string, websiteID string) (model.WebsiteRecord, Result) {
	endpoint := websiteEndpoint(websiteID)
	result := client.Request(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Token: token})
	if !result.Success {
		return model.WebsiteRecord{}, result
	}
	var record model.WebsiteRecord
	if !client.decodeData(endpoint, result, &record) {
		return model.WebsiteRecord{}, unexpectedResult(result)
	}
	return record, result
}

// UpdateWebsite replaces the content of one website.
func (client *Client) UpdateWebsite(ctx context.Context, token string, websiteID string, content model.WebsiteContent) Result {
	return client.Request(ctx, Request{
		Method:   http.MethodPut,
		Endpoint: websiteEndpoint(websiteID),
		Body:     model.WebsiteUpdate{Content: content},
		Token:    token,
	})
}

// DeleteWebsite removes one website.
func (client *Client) DeleteWebsite(ctx context.Context, token string, websiteID string) Result {
	return client.Request(ctx, Request{Method: http.MethodDelete, Endpoint: websiteEndpoint(websiteID), Token: token})
}

// AssignRole changes the role of another account.
func (client *Client) AssignRole(ctx context.Context, token string, userID string, role model.Role) Result {
	return client.Request(ctx, Request{
		Method:   http.MethodPut,
		Endpoint: endpointAssignRole,
		Body:     assignRoleRequest{UserID: userID, Role: role},
		Token:    token,
	})
}

// ListUsers returns every account.
func (client *Client) ListUsers(ctx context.Context, token string) ([]model.User, Result) {
	result := client.Request(ctx, Request{Method: http.MethodGet, Endpoint: endpointUsers, Token: token})
	if !result.Success {
		return nil, result
	}
	var users []model.User
	if !client.decodeData(endpointUsers, result, &users) {
		return nil, unexpectedResult(result)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, result
}

// DeleteUser removes another account.
func (client *Client) DeleteUser(ctx context.Context, token string, userID string) Result {
	return client.Request(ctx, Request{
		Method:   http.MethodDelete,
		Endpoint: endpointUserPrefix + url.PathEscape(userID),
		Token:    token,
	})
}

// PreviewURL returns the public preview page of a website.
func (client *Client) PreviewURL(websiteID string) string {
	return client.baseURL + endpointPreviewPrefix + url.PathEscape(websiteID)
}

func websiteEndpoint(websiteID string) string {
	return endpointWebsitePrefix + url.PathEscape(websiteID)
}

func (client *Client) decodeData(endpoint string, result Result, target any) bool {
	if decodeErr := json.Unmarshal(result.Data, target); decodeErr != nil {
		client.logger.Warn(logEventUnexpectedData, zap.String(logFieldEndpoint, endpoint), zap.Error(decodeErr))
		return false
	}
	return true
}

func unexpectedResult(result Result) Result {
	return Result{
		Message:    MessageUnexpectedResponse,
		Data:       result.Data,
		StatusCode: result.StatusCode,
	}
}
