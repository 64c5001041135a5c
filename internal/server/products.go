package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListProducts(c *gin.Context) {
	products, err := s.catalogSvc.Products(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProductOptions is the path-param twin of GetPricingOptions.
func (s *Server) GetProductOptions(c *gin.Context) {
	productSlug := strings.TrimSpace(c.Param("slug"))
	if productSlug == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	c.Set("product_slug", productSlug)

	model, err := s.catalogSvc.Options(c.Request.Context(), productSlug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, model)
}
