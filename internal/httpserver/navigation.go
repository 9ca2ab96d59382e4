package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/session"
)

func getScreen(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"screen":           s.Nav.Current(),
		"previousScreen":   s.Nav.Previous(),
		"isTransitioning":  s.Nav.InFlight(),
		"sharedElement":    s.Nav.SharedElementActive(),
		"profileShown":     s.Nav.ProfileShown(),
		"selectedCategory": s.SelectedCategory(),
		"selectedProduct":  s.SelectedProduct(),
	})
}

// navigate requests a screen transition. A request arriving while another
// transition is in flight is dropped, not queued; the response says which.
func navigate(c *gin.Context) {
	s := currentSession(c)
	var req session.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid navigate payload")
		return
	}
	if !req.Target.Valid() {
		badRequest(c, "unknown screen "+string(req.Target))
		return
	}
	tr, ok := s.Navigate(req)
	if !ok {
		c.JSON(http.StatusAccepted, gin.H{"accepted": false, "screen": s.Nav.Current()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "transition": tr})
}

func goBack(c *gin.Context) {
	s := currentSession(c)
	tr, ok := s.Back()
	if !ok {
		c.JSON(http.StatusAccepted, gin.H{"accepted": false, "screen": s.Nav.Current()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "transition": tr})
}

func hideProfile(c *gin.Context) {
	s := currentSession(c)
	s.Nav.HideProfile()
	c.JSON(http.StatusOK, gin.H{"profileShown": false})
}
