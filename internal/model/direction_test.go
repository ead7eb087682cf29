package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecAt(deg float64) Vec2 {
	return FromAngle(deg*math.Pi/180, 10)
}

func TestClassifyDirection_Axes(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Direction
	}{
		{"right", Vec2{X: 1}, Direction{Facing: FacingSide}},
		{"left", Vec2{X: -1}, Direction{Facing: FacingSide, Mirror: true}},
		{"down", Vec2{Y: 1}, Direction{Facing: FacingDown}},
		{"up", Vec2{Y: -1}, Direction{Facing: FacingUp}},
		{"down-right", Vec2{X: 1, Y: 1}, Direction{Facing: FacingDownCorner}},
		{"down-left", Vec2{X: -1, Y: 1}, Direction{Facing: FacingDownCorner, Mirror: true}},
		{"up-left", Vec2{X: -1, Y: -1}, Direction{Facing: FacingUpCorner, Mirror: true}},
		{"up-right", Vec2{X: 1, Y: -1}, Direction{Facing: FacingUpCorner}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyDirection(tt.v, 0.1)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDirection_DeadZone(t *testing.T) {
	_, ok := ClassifyDirection(Vec2{X: 0.05, Y: 0.05}, 0.1)
	assert.False(t, ok, "vector inside dead zone must not change facing")

	_, ok = ClassifyDirection(Vec2{}, 0)
	assert.False(t, ok, "zero vector has no direction")
}

func TestClassifyDirection_ArcBoundaries(t *testing.T) {
	// 22° is still side, 23° already down-corner.
	got, _ := ClassifyDirection(vecAt(22), 0)
	assert.Equal(t, FacingSide, got.Facing)
	got, _ = ClassifyDirection(vecAt(23), 0)
	assert.Equal(t, FacingDownCorner, got.Facing)

	got, _ = ClassifyDirection(vecAt(337), 0)
	assert.Equal(t, FacingUpCorner, got.Facing)
	got, _ = ClassifyDirection(vecAt(338), 0)
	assert.Equal(t, Direction{Facing: FacingSide}, got)
}

func TestClassifyDirection_TotalAndOpposite(t *testing.T) {
	seen := make(map[Direction]int)
	for deg := 0; deg < 360; deg++ {
		d, ok := ClassifyDirection(vecAt(float64(deg)), 1)
		require.True(t, ok, "angle %d must classify", deg)
		seen[d]++

		opp, ok := ClassifyDirection(vecAt(float64(deg+180)), 1)
		require.True(t, ok)
		assert.Equal(t, d.Opposite(), opp, "angle %d vs %d", deg, deg+180)
	}

	assert.Len(t, seen, 8, "every one of the eight directions must be reachable")
	for d, n := range seen {
		assert.Equal(t, 45, n, "direction %v should cover a 45° arc", d)
	}
}

func TestDirection_OppositeIsInvolution(t *testing.T) {
	for _, d := range Directions {
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.NotEqual(t, d, d.Opposite())
	}
}

func TestMirrorToward(t *testing.T) {
	assert.True(t, MirrorToward(Vec2{X: 10}, Vec2{X: 5}))
	assert.False(t, MirrorToward(Vec2{X: 10}, Vec2{X: 15}))
}

func BenchmarkClassifyDirection(b *testing.B) {
	v := Vec2{X: 3, Y: -4}
	b.ReportAllocs()
	for b.Loop() {
		ClassifyDirection(v, 0.5)
	}
}
