package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	"github.com/printhaus/printhaus/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) (*gorm.DB, *snowflake.Node, catalogdomain.Service) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&catalogdomain.PriceRow{}, &catalogdomain.PriceTier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return db, node, svc
}

func createCatalogRow(t *testing.T, db *gorm.DB, node *snowflake.Node, slug string, attrs map[string]string) {
	t.Helper()

	raw, err := json.Marshal(attrs)
	require.NoError(t, err)

	require.NoError(t, db.Create(&catalogdomain.PriceRow{
		ID:          node.Generate(),
		ProductSlug: slug,
		Attrs:       datatypes.JSON(raw),
		RuleKind:    catalogdomain.RuleKindTiers,
		Active:      true,
	}).Error)
}

func TestOptions_CollectsDistinctValuesPerKey(t *testing.T) {
	db, node, svc := setupCatalogTest(t)

	createCatalogRow(t, db, node, "business-cards", map[string]string{"Size": "85x55", "Paper": "350gsm Silk"})
	createCatalogRow(t, db, node, "business-cards", map[string]string{"Size": "85x55", "Paper": "400gsm Matt"})
	createCatalogRow(t, db, node, "business-cards", map[string]string{"Size": "90x50", "Paper": "350gsm Silk"})

	model, err := svc.Options(context.Background(), "business-cards")
	require.NoError(t, err)

	assert.Equal(t, []string{"Size", "Paper"}, model.OptionKeys)
	assert.Equal(t, []string{"85x55", "90x50"}, model.Options["Size"])
	assert.Equal(t, []string{"350gsm Silk", "400gsm Matt"}, model.Options["Paper"])
}

func TestOptions_PreferredKeysLead(t *testing.T) {
	db, node, svc := setupCatalogTest(t)

	createCatalogRow(t, db, node, "stickers", map[string]string{"Material": "Vinyl", "Size": "50x50"})
	createCatalogRow(t, db, node, "stickers", map[string]string{"Material": "Paper", "Finish": "Gloss"})

	model, err := svc.Options(context.Background(), "stickers")
	require.NoError(t, err)

	// Size is a preferred key and leads even though Material appears in the
	// same row; the rest keep first-seen order.
	assert.Equal(t, []string{"Size", "Material", "Finish"}, model.OptionKeys)
}

func TestOptions_SkipsInternalAndEmptyValues(t *testing.T) {
	db, node, svc := setupCatalogTest(t)

	createCatalogRow(t, db, node, "flyers", map[string]string{"Size": "A5", "_isMain": "true", "Fold": ""})

	model, err := svc.Options(context.Background(), "flyers")
	require.NoError(t, err)

	// Fold is observed as a key but contributes no values.
	assert.Equal(t, []string{"Size", "Fold"}, model.OptionKeys)
	assert.NotContains(t, model.Options, "_isMain")
	assert.Empty(t, model.Options["Fold"])
}

func TestOptions_UnknownProduct(t *testing.T) {
	_, _, svc := setupCatalogTest(t)

	_, err := svc.Options(context.Background(), "mugs")
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
}

func TestProducts_ListsActiveSlugs(t *testing.T) {
	db, node, svc := setupCatalogTest(t)

	createCatalogRow(t, db, node, "flyers", map[string]string{"Size": "A5"})
	createCatalogRow(t, db, node, "business-cards", map[string]string{"Size": "85x55"})

	products, err := svc.Products(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"business-cards", "flyers"}, products)
}
