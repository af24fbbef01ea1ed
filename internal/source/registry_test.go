package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/pkg/models"
)

type nopAdapter struct{ id string }

func (n *nopAdapter) ID() string { return n.id }
func (n *nopAdapter) Search(context.Context, []string, models.FilterSpec, EmitFunc) error {
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(Spec{ID: "a", Enabled: true}, &nopAdapter{id: "a"}))

	entry, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", entry.Spec.ID)

	_, ok = r.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Spec{}, &nopAdapter{}))
	assert.Error(t, r.Register(Spec{ID: "a"}, nil))

	require.NoError(t, r.Register(Spec{ID: "a"}, &nopAdapter{id: "a"}))
	assert.Error(t, r.Register(Spec{ID: "a"}, &nopAdapter{id: "a"}))
}

func TestRegistryIDsPriorityOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Spec{ID: "low", Priority: 10}, &nopAdapter{id: "low"}))
	require.NoError(t, r.Register(Spec{ID: "high", Priority: 90}, &nopAdapter{id: "high"}))
	require.NoError(t, r.Register(Spec{ID: "beta", Priority: 50}, &nopAdapter{id: "beta"}))
	require.NoError(t, r.Register(Spec{ID: "alpha", Priority: 50}, &nopAdapter{id: "alpha"}))

	assert.Equal(t, []string{"high", "alpha", "beta", "low"}, r.IDs())
}

func TestErrorKindTransient(t *testing.T) {
	assert.True(t, KindRateLimited.Transient())
	assert.True(t, KindTimeout.Transient())
	assert.True(t, KindNetwork.Transient())
	assert.False(t, KindBlocked.Transient())
	assert.False(t, KindParseFailure.Transient())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBlocked, KindOf(Errorf(KindBlocked, "challenge page")))
	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, KindOf(errors.New("read tcp: i/o timeout")))
	assert.Equal(t, KindNetwork, KindOf(errors.New("connection refused")))

	wrapped := fmt.Errorf("searching portal: %w", NewError(KindRateLimited, errors.New("429")))
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
}
