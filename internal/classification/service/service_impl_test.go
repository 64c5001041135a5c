package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/internal/classification/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupClassificationTest(t *testing.T) (*gorm.DB, *snowflake.Node, classificationdomain.Service) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&classificationdomain.AttributeClassification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return db, node, svc
}

func TestClassify_FallsBackToDefaults(t *testing.T) {
	_, _, svc := setupClassificationTest(t)

	keys, err := svc.Classify(context.Background(), "business-cards")
	require.NoError(t, err)

	assert.Equal(t, classificationdomain.DefaultKeySet.Main, keys.Main)
	assert.Equal(t, classificationdomain.DefaultKeySet.Modifier, keys.Modifier)
}

func TestClassify_UsesStoredKeys(t *testing.T) {
	db, node, svc := setupClassificationTest(t)

	mainKeys, _ := json.Marshal([]string{"Material", "Shape"})
	modifierKeys, _ := json.Marshal([]string{"Finishing"})
	require.NoError(t, db.Create(&classificationdomain.AttributeClassification{
		ID:           node.Generate(),
		ProductSlug:  "stickers",
		MainKeys:     datatypes.JSON(mainKeys),
		ModifierKeys: datatypes.JSON(modifierKeys),
	}).Error)

	keys, err := svc.Classify(context.Background(), "stickers")
	require.NoError(t, err)

	assert.Equal(t, []string{"Material", "Shape"}, keys.Main)
	assert.Equal(t, []string{"Finishing"}, keys.Modifier)
}

func TestClassify_EmptyRowFallsBackToDefaults(t *testing.T) {
	db, node, svc := setupClassificationTest(t)

	require.NoError(t, db.Create(&classificationdomain.AttributeClassification{
		ID:           node.Generate(),
		ProductSlug:  "stickers",
		MainKeys:     datatypes.JSON([]byte(`[]`)),
		ModifierKeys: datatypes.JSON([]byte(`[]`)),
	}).Error)

	keys, err := svc.Classify(context.Background(), "stickers")
	require.NoError(t, err)

	assert.Equal(t, classificationdomain.DefaultKeySet.Main, keys.Main)
}
