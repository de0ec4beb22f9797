package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownTypes(t *testing.T) {
	cfg, ok := Lookup(TypeNewMessage)
	require.True(t, ok)
	assert.Equal(t, CategoryChat, cfg.Category)
	assert.Equal(t, PriorityHigh, cfg.Priority)
	assert.False(t, cfg.RequiresInterest)
	assert.True(t, cfg.DefaultEnabled)

	cfg, ok = Lookup(TypeListingPosted)
	require.True(t, ok)
	assert.True(t, cfg.RequiresInterest)
	assert.False(t, cfg.DefaultEnabled, "marketplace listings are opt-in")

	cfg, ok = Lookup(TypeAdminAlert)
	require.True(t, ok)
	assert.Equal(t, PriorityUrgent, cfg.Priority)
}

func TestLookupUnknownType(t *testing.T) {
	_, ok := Lookup("no_such_type")
	assert.False(t, ok)
}

func TestAllEntriesAreConsistent(t *testing.T) {
	all := All()
	require.Len(t, all, 8)

	seen := make(map[string]bool)
	for _, cfg := range all {
		assert.False(t, seen[cfg.Type], "duplicate type %q", cfg.Type)
		seen[cfg.Type] = true

		byType, ok := Lookup(cfg.Type)
		require.True(t, ok)
		assert.Equal(t, cfg, byType)
		assert.NotEmpty(t, cfg.Category)
		assert.NotEmpty(t, cfg.Priority)
	}
}
