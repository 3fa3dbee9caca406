package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		Column{Name: "price", Kind: KindNumeric, Floats: []float64{1.5, 2.5, math.NaN(), 4}},
		Column{Name: "size", Kind: KindNumeric, Floats: []float64{10, 20, 30, 40}},
		Column{Name: "region", Kind: KindCategorical, Labels: []string{"east", "west", "east", "south"}},
	)
	require.NoError(t, err)
	return f
}

func TestNewFrame(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		f := sampleFrame(t)
		assert.Equal(t, 4, f.Rows())
		assert.Equal(t, 3, f.NumCols())
		assert.Equal(t, []string{"price", "size", "region"}, f.Names())
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := New(
			Column{Name: "a", Kind: KindNumeric, Floats: []float64{1, 2}},
			Column{Name: "b", Kind: KindNumeric, Floats: []float64{1}},
		)
		assert.Error(t, err)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := New(
			Column{Name: "a", Kind: KindNumeric, Floats: []float64{1}},
			Column{Name: "a", Kind: KindNumeric, Floats: []float64{2}},
		)
		assert.Error(t, err)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := New(Column{Name: "", Kind: KindNumeric, Floats: []float64{1}})
		assert.Error(t, err)
	})
}

func TestColumnLevelsAndDistinct(t *testing.T) {
	f := sampleFrame(t)

	region, err := f.Column("region")
	require.NoError(t, err)
	assert.Equal(t, []string{"east", "west", "south"}, region.Levels())
	assert.Equal(t, 3, region.Distinct())

	price, err := f.Column("price")
	require.NoError(t, err)
	assert.Nil(t, price.Levels())
	// NaN is missing, not a distinct value.
	assert.Equal(t, 3, price.Distinct())
}

func TestFrameSelectDrop(t *testing.T) {
	f := sampleFrame(t)

	t.Run("Select", func(t *testing.T) {
		sub, err := f.Select("region", "price")
		require.NoError(t, err)
		assert.Equal(t, []string{"region", "price"}, sub.Names())
		assert.Equal(t, 4, sub.Rows())
	})

	t.Run("SelectUnknown", func(t *testing.T) {
		_, err := f.Select("nope")
		assert.Error(t, err)
	})

	t.Run("Drop", func(t *testing.T) {
		sub, err := f.Drop("size")
		require.NoError(t, err)
		assert.Equal(t, []string{"price", "region"}, sub.Names())
	})

	t.Run("DropUnknown", func(t *testing.T) {
		_, err := f.Drop("nope")
		assert.Error(t, err)
	})
}

func TestFrameCloneIsIndependent(t *testing.T) {
	f := sampleFrame(t)
	clone := f.Clone()

	col, err := clone.Column("size")
	require.NoError(t, err)
	col.Floats[0] = -999

	orig, err := f.Column("size")
	require.NoError(t, err)
	assert.Equal(t, 10.0, orig.Floats[0])
}

func TestCategoricalNames(t *testing.T) {
	f := sampleFrame(t)
	assert.Equal(t, []string{"region"}, f.CategoricalNames())
}
