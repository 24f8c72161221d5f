package taxonomy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxonomy/internal/database/dbtest"
	"taxonomy/internal/models"
)

var actor = uuid.MustParse("22222222-2222-2222-2222-222222222222")

func newTestEngine(t *testing.T, opts Options) (*Engine, *sqlx.DB) {
	t.Helper()
	db := dbtest.New(t)
	return NewFromDB(db, opts), db
}

func mustCreateCategory(t *testing.T, e *Engine, nameEN string, parent *uuid.UUID) *models.Category {
	t.Helper()
	c, err := e.Categories.Create(context.Background(), CategoryInput{
		NameVI:   nameEN + " (vi)",
		NameEN:   nameEN,
		ParentID: parent,
	}, actor)
	require.NoError(t, err)
	return c
}

// mockTreeCache records cache traffic.
type mockTreeCache struct {
	mock.Mock
}

func (m *mockTreeCache) Get(ctx context.Context) ([]models.Category, bool, error) {
	args := m.Called(ctx)
	tree, _ := args.Get(0).([]models.Category)
	return tree, args.Bool(1), args.Error(2)
}

func (m *mockTreeCache) Set(ctx context.Context, tree []models.Category) error {
	return m.Called(ctx, tree).Error(0)
}

func (m *mockTreeCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
