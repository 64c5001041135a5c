package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/internal/config"
	quotedomain "github.com/printhaus/printhaus/internal/quote/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoteService struct {
	result *quotedomain.Result
	err    error
	calls  int
}

func (f *fakeQuoteService) Quote(ctx context.Context, req quotedomain.Request) (*quotedomain.Result, error) {
	f.calls++
	_ = ctx
	_ = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeCatalogService struct {
	model    *catalogdomain.OptionModel
	products []string
	err      error
}

func (f *fakeCatalogService) Products(ctx context.Context) ([]string, error) {
	_ = ctx
	return f.products, f.err
}

func (f *fakeCatalogService) Options(ctx context.Context, productSlug string) (*catalogdomain.OptionModel, error) {
	_ = ctx
	_ = productSlug
	if f.err != nil {
		return nil, f.err
	}
	return f.model, nil
}

type fakeClassifierService struct {
	keys classificationdomain.KeySet
}

func (f *fakeClassifierService) Classify(ctx context.Context, productSlug string) (classificationdomain.KeySet, error) {
	_ = ctx
	_ = productSlug
	return f.keys, nil
}

func newTestServer(t *testing.T, quoteSvc quotedomain.Service, catalogSvc catalogdomain.Service, rateLimit int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewServer(ServerParams{
		Gin:           engine,
		Cfg:           config.Config{QuoteRateLimit: rateLimit},
		GenID:         node,
		CatalogSvc:    catalogSvc,
		ClassifierSvc: &fakeClassifierService{keys: classificationdomain.DefaultKeySet},
		QuoteSvc:      quoteSvc,
	})
}

func postQuote(server *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/quote", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)
	return w
}

func sampleResult() *quotedomain.Result {
	return &quotedomain.Result{
		Breakdown: quotedomain.Breakdown{
			Base:      quotedomain.Base{Net: decimal.RequireFromString("50")},
			Modifiers: quotedomain.Modifiers{Add: decimal.Zero, Items: []quotedomain.Item{}},
			Net:       decimal.RequireFromString("50"),
			VAT:       decimal.RequireFromString("10"),
			Gross:     decimal.RequireFromString("60"),
			Unit:      decimal.RequireFromString("0.24"),
		},
		Debug: quotedomain.Debug{Service: "business-cards", Qty: 250},
	}
}

func TestCreateQuote_Success(t *testing.T) {
	quoteSvc := &fakeQuoteService{result: sampleResult()}
	server := newTestServer(t, quoteSvc, &fakeCatalogService{}, 0)

	w := postQuote(server, `{"slug":"business-cards","qty":250,"selection":{"Size":"85x55"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, quoteSvc.calls)

	var resp quoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.InDelta(t, 50, resp.Breakdown.Net, 0.001)
	assert.InDelta(t, 10, resp.Breakdown.VAT, 0.001)
	assert.InDelta(t, 60, resp.Breakdown.Gross, 0.001)
	assert.InDelta(t, 0.24, resp.Breakdown.Unit, 0.001)
	assert.NotNil(t, resp.Breakdown.Modifiers.Items)
}

func TestCreateQuote_MissingFields(t *testing.T) {
	quoteSvc := &fakeQuoteService{result: sampleResult()}
	server := newTestServer(t, quoteSvc, &fakeCatalogService{}, 0)

	w := postQuote(server, `{"qty":250}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, quoteSvc.calls)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "Missing required fields", resp.Error)
}

func TestCreateQuote_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid quantity", quotedomain.ErrInvalidQuantity, http.StatusBadRequest, "Quantity must be a positive integer"},
		{"unknown service", quotedomain.ErrServiceNotFound, http.StatusNotFound, "Service not found"},
		{"no main row", quotedomain.ErrNoMainConfiguration, http.StatusNotFound, "No matching main price configuration found"},
		{"no tiers", quotedomain.ErrNoTiers, http.StatusNotFound, "No pricing tiers found"},
		{"internal", assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, &fakeQuoteService{err: tc.err}, &fakeCatalogService{}, 0)

			w := postQuote(server, `{"slug":"business-cards","qty":1,"selection":{"Size":"85x55"}}`)

			require.Equal(t, tc.status, w.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.OK)
			assert.Equal(t, tc.message, resp.Error)
		})
	}
}

func TestCreateQuote_RateLimit(t *testing.T) {
	quoteSvc := &fakeQuoteService{result: sampleResult()}
	server := newTestServer(t, quoteSvc, &fakeCatalogService{}, 2)

	body := `{"slug":"business-cards","qty":1,"selection":{"Size":"85x55"}}`
	assert.Equal(t, http.StatusOK, postQuote(server, body).Code)
	assert.Equal(t, http.StatusOK, postQuote(server, body).Code)

	w := postQuote(server, body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 2, quoteSvc.calls)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Too many requests", resp.Error)
}

func TestGetPricingOptions(t *testing.T) {
	server := newTestServer(t, &fakeQuoteService{}, &fakeCatalogService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/pricing/options?slug=business-cards", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp pricingOptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, classificationdomain.DefaultKeySet.Main, resp.MainParams)
	assert.Equal(t, classificationdomain.DefaultKeySet.Modifier, resp.ModifierParams)
}

func TestGetProductOptions(t *testing.T) {
	catalogSvc := &fakeCatalogService{
		model: &catalogdomain.OptionModel{
			OptionKeys: []string{"Size", "Paper"},
			Options: map[string][]string{
				"Size":  {"85x55"},
				"Paper": {"350gsm Silk", "400gsm Matt"},
			},
		},
	}
	server := newTestServer(t, &fakeQuoteService{}, catalogSvc, 0)

	req := httptest.NewRequest(http.MethodGet, "/products/business-cards/options", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var model catalogdomain.OptionModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &model))
	assert.Equal(t, []string{"Size", "Paper"}, model.OptionKeys)
	assert.Equal(t, []string{"350gsm Silk", "400gsm Matt"}, model.Options["Paper"])
}

func TestGetPricingOptions_MissingSlug(t *testing.T) {
	server := newTestServer(t, &fakeQuoteService{}, &fakeCatalogService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/pricing/options", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductOptions_NotFound(t *testing.T) {
	server := newTestServer(t, &fakeQuoteService{}, &fakeCatalogService{err: catalogdomain.ErrNotFound}, 0)

	req := httptest.NewRequest(http.MethodGet, "/products/mugs/options", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProducts(t *testing.T) {
	server := newTestServer(t, &fakeQuoteService{}, &fakeCatalogService{products: []string{"business-cards", "flyers-a5"}}, 0)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []string `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"business-cards", "flyers-a5"}, resp.Products)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter := newRateLimiter(1, 50*time.Millisecond)

	assert.True(t, limiter.allow("ip"))
	assert.False(t, limiter.allow("ip"))
	assert.True(t, limiter.allow("other-ip"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, limiter.allow("ip"))
}
