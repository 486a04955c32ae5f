package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	// ViewAPIPath serves the decided dashboard view as JSON.
	ViewAPIPath = "/app/api/view"

	corsPreflightMaxAge = 12 * time.Hour
)

type websiteRowResponse struct {
	ID           string `json:"id"`
	BusinessType string `json:"business_type"`
	Industry     string `json:"industry"`
	OwnerID      string `json:"owner_id"`
	PreviewURL   string `json:"preview_url"`
	CanManage    bool   `json:"can_manage"`
}

type viewResponse struct {
	Authenticated       bool                 `json:"authenticated"`
	AuthMessage         string               `json:"auth_message,omitempty"`
	Role                string               `json:"role,omitempty"`
	UserID              string               `json:"user_id,omitempty"`
	ShowGenerateSection bool                 `json:"show_generate_section"`
	ShowAdminLink       bool                 `json:"show_admin_link"`
	Websites            []websiteRowResponse `json:"websites"`
	WebsitesMessage     string               `json:"websites_message,omitempty"`
	WebsitesError       bool                 `json:"websites_error"`
	SessionExpired      bool                 `json:"session_expired"`
}

// NewCORSMiddleware allows the listed origins to read the JSON view with the session cookie.
// Surrounding whitespace and empty entries are ignored; no origins means same-origin only.
func NewCORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	configuration := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Accept", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsPreflightMaxAge,
	}
	if len(origins) == 0 {
		configuration.AllowOriginFunc = func(string) bool { return false }
	} else {
		configuration.AllowOrigins = origins
	}
	return cors.New(configuration)
}

// RegisterViewRoute attaches the JSON view behind the CORS middleware.
func (handlers *WebHandlers) RegisterViewRoute(router gin.IRouter, allowedOrigins []string) {
	group := router.Group(ViewAPIPath)
	group.Use(NewCORSMiddleware(allowedOrigins))
	group.GET("", handlers.RenderViewJSON)
	group.OPTIONS("", func(context *gin.Context) { context.Status(http.StatusNoContent) })
}

// RenderViewJSON returns the same view the dashboard page renders.
func (handlers *WebHandlers) RenderViewJSON(context *gin.Context) {
	controller, session := handlers.begin(context, false)
	_, view := controller.Start(context.Request.Context())
	_, _, expired := session.pendingNavigation()
	session.save()

	rows := make([]websiteRowResponse, 0, len(view.Websites.Rows))
	for _, row := range view.Websites.Rows {
		rows = append(rows, websiteRowResponse{
			ID:           row.ID,
			BusinessType: row.BusinessType,
			Industry:     row.Industry,
			OwnerID:      row.OwnerID,
			PreviewURL:   row.PreviewURL,
			CanManage:    row.CanManage,
		})
	}
	context.JSON(http.StatusOK, viewResponse{
		Authenticated:       view.Authenticated && !expired,
		AuthMessage:         view.AuthMessage,
		Role:                string(view.Role),
		UserID:              view.UserID,
		ShowGenerateSection: view.ShowGenerateSection,
		ShowAdminLink:       view.ShowAdminLink,
		Websites:            rows,
		WebsitesMessage:     view.Websites.Message,
		WebsitesError:       view.Websites.IsError,
		SessionExpired:      expired,
	})
}
