package httpserver

import (
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"surf-storefront/internal/catalog"
	"surf-storefront/internal/session"
)

// Deps are the wired collaborators the routes need.
type Deps struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session manager required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, sessionHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.GET("/catalog/categories", listCategories(deps.Catalog))
	api.GET("/catalog/products", listProducts(deps.Catalog))
	api.GET("/catalog/products/:id", getProduct(deps.Catalog))

	api.POST("/sessions", createSession(deps.Sessions))

	sess := api.Group("/session", sessionMiddleware(deps.Sessions))
	sess.GET("", getSession)
	sess.GET("/cart", getCart)
	sess.POST("/cart/items", addCartItem(deps.Catalog))
	sess.PATCH("/cart/items/:lineID", updateCartItem)
	sess.DELETE("/cart/items/:lineID", removeCartItem)
	sess.DELETE("/cart", clearCart)

	sess.GET("/screen", getScreen)
	sess.POST("/navigate", navigate)
	sess.POST("/back", goBack)
	sess.POST("/profile/hide", hideProfile)
	sess.GET("/profile", getProfile)
	sess.PATCH("/profile", updateProfile)

	sess.POST("/checkout", startCheckout)
	sess.GET("/checkout", getCheckout)
	sess.PUT("/checkout/details", setCheckoutDetails)
	sess.POST("/checkout/advance", advanceCheckout)
	sess.POST("/checkout/back", checkoutBack)
	sess.POST("/checkout/pay", payCheckout)
	sess.POST("/checkout/complete", completeCheckout)
	sess.DELETE("/checkout", abandonCheckout)

	sess.GET("/orders", listOrders)

	return router, nil
}
