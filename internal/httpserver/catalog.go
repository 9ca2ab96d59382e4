package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surf-storefront/internal/catalog"
	"surf-storefront/internal/domain"
)

func listCategories(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": cat.Categories()})
	}
}

func listProducts(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.Query("category"); raw != "" {
			category := domain.Category(raw)
			if !category.Valid() {
				badRequest(c, "unknown category "+raw)
				return
			}
			c.JSON(http.StatusOK, gin.H{"products": cat.ByCategory(category)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": cat.Products()})
	}
}

func getProduct(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := cat.Product(c.Param("id"))
		if err != nil {
			errorJSON(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
