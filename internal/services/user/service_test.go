package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/models"
	"github.com/bobmcallan/mystock/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(memory.NewStore(), []string{"Long Term", "Short Term", "Scout"}, common.NewSilentLogger())
}

func TestRegisterSeedsFixedPortfolios(t *testing.T) {
	svc := newTestService()

	aggregate, err := svc.Register(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", aggregate.UserID)
	assert.Empty(t, aggregate.Watchlist)
	require.Len(t, aggregate.Portfolios, 3)
	assert.Equal(t, "Long Term", aggregate.Portfolios[0].Name)
	assert.Equal(t, "Short Term", aggregate.Portfolios[1].Name)
	assert.Equal(t, "Scout", aggregate.Portfolios[2].Name)
	for _, p := range aggregate.Portfolios {
		assert.NotEmpty(t, p.ID)
		assert.Empty(t, p.Holdings)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrAlreadyExists))
}

func TestRegisterBlankUserID(t *testing.T) {
	svc := newTestService()

	_, err := svc.Register(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestGetAndRemove(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice")
	require.NoError(t, err)

	aggregate, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", aggregate.UserID)

	require.NoError(t, svc.Remove(ctx, "alice"))

	_, err = svc.Get(ctx, "alice")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = svc.Remove(ctx, "alice")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
