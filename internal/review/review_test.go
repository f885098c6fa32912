package review

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/plotgen/internal/model"
)

func newPlots(n, samples int) []model.Plot {
	plots := make([]model.Plot, n)
	for i := range plots {
		plots[i].ID = i
		for j := range samples {
			plots[i].Samples = append(plots[i].Samples, model.Sample{ID: j})
		}
	}
	return plots
}

func TestFlag(t *testing.T) {
	plots := newPlots(3, 0)

	require.NoError(t, Flag(plots, 1))
	assert.False(t, plots[0].Flagged)
	assert.True(t, plots[1].Flagged)

	err := Flag(plots, 9)
	assert.ErrorIs(t, err, ErrPlotNotFound)
}

func TestRecordSamples(t *testing.T) {
	plots := newPlots(2, 3)

	require.NoError(t, RecordSamples(plots, 1, "alice", map[int]int{0: 4, 1: 5, 2: 4}))

	p := plots[1]
	assert.Equal(t, 1, p.Analyses)
	require.NotNil(t, p.User)
	assert.Equal(t, "alice", *p.User)
	for i, want := range []int{4, 5, 4} {
		require.NotNil(t, p.Samples[i].Value)
		assert.Equal(t, want, *p.Samples[i].Value)
	}
	assert.Zero(t, plots[0].Analyses)

	require.NoError(t, RecordSamples(plots, 1, "bob", map[int]int{0: 1, 1: 1, 2: 1}))
	assert.Equal(t, 2, plots[1].Analyses)
	assert.Equal(t, "bob", *plots[1].User)
}

func TestRecordSamples_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		plotID int
		values map[int]int
		want   error
	}{
		{name: "unknown plot", plotID: 5, values: map[int]int{0: 1, 1: 1}, want: ErrPlotNotFound},
		{name: "missing sample", plotID: 0, values: map[int]int{0: 1}, want: ErrInvalidSamples},
		{name: "unknown sample", plotID: 0, values: map[int]int{0: 1, 1: 1, 7: 1}, want: ErrInvalidSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plots := newPlots(1, 2)

			err := RecordSamples(plots, tt.plotID, "alice", tt.values)
			assert.ErrorIs(t, err, tt.want)

			assert.Zero(t, plots[0].Analyses)
			assert.Nil(t, plots[0].User)
			for _, s := range plots[0].Samples {
				assert.Nil(t, s.Value)
			}
		})
	}
}

func TestNextUnanalyzed(t *testing.T) {
	plots := newPlots(4, 0)
	plots[0].Flagged = true
	plots[1].Analyses = 1
	rng := rand.New(rand.NewPCG(1, 2))

	seen := map[int]bool{}
	for range 50 {
		p, ok := NextUnanalyzed(plots, rng)
		require.True(t, ok)
		seen[p.ID] = true
	}
	assert.Equal(t, map[int]bool{2: true, 3: true}, seen)

	plots[2].Analyses = 1
	plots[3].Flagged = true
	p, ok := NextUnanalyzed(plots, rng)
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestNextUnanalyzed_ReturnsPointerIntoSlice(t *testing.T) {
	plots := newPlots(1, 0)
	p, ok := NextUnanalyzed(plots, rand.New(rand.NewPCG(1, 1)))
	require.True(t, ok)
	p.Flagged = true
	assert.True(t, plots[0].Flagged)
}

func TestThin(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		max     int
		wantIDs []int
	}{
		{name: "under limit", n: 3, max: 5, wantIDs: []int{0, 1, 2}},
		{name: "at limit", n: 4, max: 4, wantIDs: []int{0, 1, 2, 3}},
		{name: "halve", n: 10, max: 5, wantIDs: []int{0, 2, 4, 6, 8}},
		{name: "rounds half up", n: 10, max: 4, wantIDs: []int{0, 3, 5, 8}},
		{name: "single", n: 7, max: 1, wantIDs: []int{0}},
		{name: "zero max", n: 3, max: 0, wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Thin(newPlots(tt.n, 0), tt.max)
			ids := make([]int, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
