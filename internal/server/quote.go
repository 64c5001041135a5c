package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	quotedomain "github.com/printhaus/printhaus/internal/quote/domain"
)

type quoteRequest struct {
	Slug      string            `json:"slug" binding:"required"`
	Qty       int64             `json:"qty" binding:"required"`
	Selection map[string]string `json:"selection" binding:"required"`
	Extras    quoteExtras       `json:"extras"`
}

type quoteExtras struct {
	Turnaround string `json:"turnaround"`
	Delivery   string `json:"delivery"`
}

type quoteItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type quoteBase struct {
	Net float64 `json:"net"`
}

type quoteModifiers struct {
	Add   float64     `json:"add"`
	Items []quoteItem `json:"items"`
}

type quoteBreakdown struct {
	Base      quoteBase      `json:"base"`
	Modifiers quoteModifiers `json:"modifiers"`
	Net       float64        `json:"net"`
	VAT       float64        `json:"vat"`
	Gross     float64        `json:"gross"`
	Unit      float64        `json:"unit"`
}

type quoteResponse struct {
	OK        bool              `json:"ok"`
	Breakdown quoteBreakdown    `json:"breakdown"`
	Debug     quotedomain.Debug `json:"debug"`
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	c.Set("product_slug", req.Slug)

	start := time.Now()
	result, err := s.quoteSvc.Quote(c.Request.Context(), quotedomain.Request{
		Slug:      req.Slug,
		Qty:       req.Qty,
		Selection: req.Selection,
		Extras: quotedomain.Extras{
			Turnaround: req.Extras.Turnaround,
			Delivery:   req.Extras.Delivery,
		},
	})
	if err != nil {
		_, reason := classifyErrorForLog(err)
		s.obsMetrics.RecordQuoteFailure(c.Request.Context(), req.Slug, reason)
		AbortWithError(c, err)
		return
	}
	s.obsMetrics.RecordQuote(c.Request.Context(), req.Slug, time.Since(start))

	c.JSON(http.StatusOK, toQuoteResponse(result))
}

func toQuoteResponse(result *quotedomain.Result) quoteResponse {
	items := make([]quoteItem, 0, len(result.Breakdown.Modifiers.Items))
	for _, item := range result.Breakdown.Modifiers.Items {
		items = append(items, quoteItem{
			Name:  item.Name,
			Price: item.Price.InexactFloat64(),
		})
	}

	return quoteResponse{
		OK: true,
		Breakdown: quoteBreakdown{
			Base: quoteBase{Net: result.Breakdown.Base.Net.InexactFloat64()},
			Modifiers: quoteModifiers{
				Add:   result.Breakdown.Modifiers.Add.InexactFloat64(),
				Items: items,
			},
			Net:   result.Breakdown.Net.InexactFloat64(),
			VAT:   result.Breakdown.VAT.InexactFloat64(),
			Gross: result.Breakdown.Gross.InexactFloat64(),
			Unit:  result.Breakdown.Unit.InexactFloat64(),
		},
		Debug: result.Debug,
	}
}
