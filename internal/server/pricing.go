package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type pricingOptionsResponse struct {
	MainParams     []string `json:"mainParams"`
	ModifierParams []string `json:"modifierParams"`
}

// GetPricingOptions serves the main/modifier attribute key sets for a
// product. The quote engine reads the same classification in process; this
// endpoint keeps the contract available to external consumers.
func (s *Server) GetPricingOptions(c *gin.Context) {
	productSlug := strings.TrimSpace(c.Query("slug"))
	if productSlug == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	c.Set("product_slug", productSlug)

	keys, err := s.classifierSvc.Classify(c.Request.Context(), productSlug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pricingOptionsResponse{
		MainParams:     keys.Main,
		ModifierParams: keys.Modifier,
	})
}
