package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/domain"
)

// errorJSON writes the error envelope with a status derived from the domain
// sentinels.
func errorJSON(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStep), errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSessionClosed):
		status = http.StatusGone
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
