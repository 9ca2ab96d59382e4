package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listOrders(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"orders": s.Orders.List()})
}
