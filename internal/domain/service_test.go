package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelection(t *testing.T) {
	services := []ServiceSpec{
		{ID: 1, Name: "Haircut", Price: 20, DurationMinutes: 30, Active: true},
		{ID: 2, Name: "Beard", Price: 10.5, DurationMinutes: 15, Active: true},
		{ID: 3, Name: "Coloring", Price: 50, DurationMinutes: 90, Active: false},
	}

	selection, err := ResolveSelection(services, []int64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, selection.IDs())
	assert.Equal(t, 45, selection.TotalDuration())
	assert.InDelta(t, 30.5, selection.TotalPrice(), 0.001)

	tests := map[string][]int64{
		"empty":     {},
		"unknown":   {1, 42},
		"inactive":  {3},
		"duplicate": {1, 1},
	}
	for name, ids := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ResolveSelection(services, ids)
			assert.ErrorIs(t, err, ErrInvalidSelection)
		})
	}
}
