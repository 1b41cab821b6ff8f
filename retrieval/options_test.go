package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestOptionsNormalized(t *testing.T) {
	t.Run("zero top_k defaults", func(t *testing.T) {
		norm, err := Options{}.normalized()
		require.NoError(t, err)
		assert.Equal(t, DefaultTopK, norm.TopK)
	})

	t.Run("top_k over the cap is rejected", func(t *testing.T) {
		_, err := Options{TopK: MaxTopK + 1}.normalized()
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("negative top_k is rejected", func(t *testing.T) {
		_, err := Options{TopK: -5}.normalized()
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("phase is canonicalized", func(t *testing.T) {
		norm, err := Options{Phase: "Phase 2/3"}.normalized()
		require.NoError(t, err)
		assert.Equal(t, "PHASE2|PHASE3", norm.Phase)
	})

	t.Run("unknown phase is rejected", func(t *testing.T) {
		_, err := Options{Phase: "phase 9"}.normalized()
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("negative min_participants is rejected", func(t *testing.T) {
		_, err := Options{MinParticipants: intPtr(-1)}.normalized()
		assert.ErrorIs(t, err, ErrInvalidOption)
	})

	t.Run("zero min_participants is allowed", func(t *testing.T) {
		_, err := Options{MinParticipants: intPtr(0)}.normalized()
		require.NoError(t, err)
	})
}

func TestOptionsBeam(t *testing.T) {
	tests := []struct {
		name string
		topK int
		want int
	}{
		{name: "small top_k hits the floor", topK: 3, want: minBeam},
		{name: "boundary", topK: 5, want: 20},
		{name: "large top_k scales", topK: 50, want: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Options{TopK: tt.topK}.beam())
		})
	}
}

func TestFilterSpecEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.Empty())
	assert.False(t, FilterSpec{Phase: "PHASE2"}.Empty())
	assert.False(t, FilterSpec{MinParticipants: intPtr(0)}.Empty())
	assert.False(t, FilterSpec{DatasetID: "oncology"}.Empty())
}
