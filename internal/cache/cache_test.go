package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/pkg/models"
)

func TestMemoryRoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	makers := []models.DecisionMaker{{Name: "Jane Smith", Title: "CTO", Confidence: 0.9}}
	require.NoError(t, c.Set(ctx, "dm:acme", makers, time.Minute))

	var got []models.DecisionMaker
	hit, err := c.Get(ctx, "dm:acme", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, makers, got)
}

func TestMemoryMiss(t *testing.T) {
	c := NewMemory()

	var got string
	hit, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryZeroTTLNeverExpires(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	var got string
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "v", got)
}

func TestMemoryOverwrite(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "size:acme", models.CompanySizeSmall, 0))
	require.NoError(t, c.Set(ctx, "size:acme", models.CompanySizeLarge, 0))

	var got models.CompanySize
	hit, err := c.Get(ctx, "size:acme", &got)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, models.CompanySizeLarge, got)
}
