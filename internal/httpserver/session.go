package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/host"
	"surf-storefront/internal/profile"
	"surf-storefront/internal/session"
)

const sessionHeader = "X-Session-ID"

const sessionCtxKey = "storefront.session"

type createSessionRequest struct {
	SafeArea host.Insets `json:"safeArea"`
	Theme    host.Theme  `json:"theme"`
	Platform string      `json:"platform"`
}

// createSession registers a new client session. The body carries the host
// shell context when the Mini-App bridge is present; an empty body degrades
// to defaults.
func createSession(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		// Body is optional: no host shell means default context.
		_ = c.ShouldBindJSON(&req)

		hostCtx := host.Context{
			SafeArea: req.SafeArea,
			Theme:    req.Theme,
			Platform: req.Platform,
		}
		s := manager.Create(c.Request.Context(), hostCtx)
		c.JSON(http.StatusCreated, gin.H{
			"sessionId": s.ID,
			"screen":    s.Nav.Current(),
			"host":      s.Host,
			"cart":      cartView(s),
		})
	}
}

// sessionMiddleware resolves the session from the X-Session-ID header.
func sessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			badRequest(c, "missing "+sessionHeader+" header")
			c.Abort()
			return
		}
		s, err := manager.Get(c.Request.Context(), id)
		if err != nil {
			errorJSON(c, err)
			c.Abort()
			return
		}
		c.Set(sessionCtxKey, s)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

func getSession(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"sessionId":        s.ID,
		"screen":           s.Nav.Current(),
		"previousScreen":   s.Nav.Previous(),
		"profileShown":     s.Nav.ProfileShown(),
		"selectedCategory": s.SelectedCategory(),
		"selectedProduct":  s.SelectedProduct(),
		"host":             s.Host,
		"cart":             cartView(s),
	})
}

func getProfile(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, s.Profile.Flags())
}

func updateProfile(c *gin.Context) {
	s := currentSession(c)
	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}
	flags := s.Profile.Update(profile.Flags{Name: req.Name, Address: req.Address})
	c.JSON(http.StatusOK, flags)
}
