package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/catalog"
	"surf-storefront/internal/domain"
	"surf-storefront/internal/session"
)

func cartView(s *session.Session) gin.H {
	return gin.H{
		"lines":      s.Cart.Lines(),
		"totalItems": s.Cart.TotalItems(),
		"totalPrice": s.Cart.TotalPrice(),
	}
}

func getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(currentSession(c)))
}

type addItemRequest struct {
	ProductID string   `json:"productId"`
	Size      string   `json:"size"`
	Options   []string `json:"options"`
	Quantity  int      `json:"quantity"`
}

// addCartItem resolves the product in the catalog, prices the configured
// line (size plus modifier surcharges) and merges it into the cart.
func addCartItem(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid cart item payload")
			return
		}
		if req.ProductID == "" {
			badRequest(c, "productId required")
			return
		}
		p, err := cat.Product(req.ProductID)
		if err != nil {
			errorJSON(c, err)
			return
		}
		line := s.Cart.Add(domain.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Size:      req.Size,
			Options:   req.Options,
			UnitPrice: p.PriceFor(req.Size, req.Options),
			Quantity:  req.Quantity,
			ImageRef:  p.Image,
		})
		s.Host.Haptics.Impact("light")
		c.JSON(http.StatusOK, gin.H{"line": line, "cart": cartView(s)})
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItem sets a line's quantity. Values below 1 are dropped silently,
// matching the store's floor; the response still reflects current state so
// fast tap interactions are never interrupted by an error.
func updateCartItem(c *gin.Context) {
	s := currentSession(c)
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid quantity payload")
		return
	}
	s.Cart.UpdateQuantity(c.Param("lineID"), req.Quantity)
	c.JSON(http.StatusOK, cartView(s))
}

func removeCartItem(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Remove(c.Param("lineID"))
	c.JSON(http.StatusOK, cartView(s))
}

func clearCart(c *gin.Context) {
	s := currentSession(c)
	s.Cart.Clear()
	c.JSON(http.StatusOK, cartView(s))
}
