package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goassume/internal/dataset"
)

func catFrame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.New(
		dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: []float64{1, 2, 3, 4}},
		dataset.Column{Name: "x", Kind: dataset.KindNumeric, Floats: []float64{5, 6, 7, 8}},
		dataset.Column{Name: "color", Kind: dataset.KindCategorical, Labels: []string{"red", "blue", "green", "red"}},
	)
	require.NoError(t, err)
	return f
}

func TestParseMethod(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "", want: MethodNone},
		{in: "ohe", want: MethodOneHot},
		{in: "ord", want: MethodOrdinal},
		{in: "onehot", wantErr: true},
	} {
		got, err := ParseMethod(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestDetectAndResolve(t *testing.T) {
	f := catFrame(t)

	t.Run("DetectExcludesTarget", func(t *testing.T) {
		assert.Equal(t, []string{"color"}, Detect(f, "y"))
		assert.Empty(t, Detect(f, "color"))
	})

	t.Run("ResolveAuto", func(t *testing.T) {
		got, err := Resolve(f, "y", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"color"}, got)
	})

	t.Run("ResolveUserList", func(t *testing.T) {
		got, err := Resolve(f, "y", []string{"color"})
		require.NoError(t, err)
		assert.Equal(t, []string{"color"}, got)
	})

	t.Run("ResolveMissingDetected", func(t *testing.T) {
		_, err := Resolve(f, "y", []string{"x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "have not been encoded")
	})

	t.Run("ResolveUnknownColumn", func(t *testing.T) {
		_, err := Resolve(f, "y", []string{"shape"})
		assert.Error(t, err)
	})
}

func TestApplyOneHot(t *testing.T) {
	f := catFrame(t)
	out, err := Apply(f, []string{"color"}, MethodOneHot)
	require.NoError(t, err)

	// Levels sort to [blue, green, red]; blue is dropped as the reference.
	assert.Equal(t, []string{"y", "x", "color_green", "color_red"}, out.Names())

	green, err := out.Column("color_green")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 0}, green.Floats)

	red, err := out.Column("color_red")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1}, red.Floats)

	// Source frame is untouched.
	assert.True(t, f.Has("color"))
}

func TestApplyOrdinal(t *testing.T) {
	f := catFrame(t)
	out, err := Apply(f, []string{"color"}, MethodOrdinal)
	require.NoError(t, err)

	color, err := out.Column("color")
	require.NoError(t, err)
	assert.Equal(t, dataset.KindNumeric, color.Kind)
	// Codes follow sorted label order: blue=0, green=1, red=2.
	assert.Equal(t, []float64{2, 0, 1, 2}, color.Floats)
}

func TestApplyEdgeCases(t *testing.T) {
	f := catFrame(t)

	t.Run("NoFeatures", func(t *testing.T) {
		out, err := Apply(f, nil, MethodNone)
		require.NoError(t, err)
		assert.Equal(t, f.Names(), out.Names())
	})

	t.Run("NoneWithFeatures", func(t *testing.T) {
		_, err := Apply(f, []string{"color"}, MethodNone)
		assert.Error(t, err)
	})

	t.Run("OneHotNumericColumn", func(t *testing.T) {
		_, err := Apply(f, []string{"x"}, MethodOneHot)
		assert.Error(t, err)
	})

	t.Run("SingleLevel", func(t *testing.T) {
		single, err := dataset.New(
			dataset.Column{Name: "y", Kind: dataset.KindNumeric, Floats: []float64{1, 2}},
			dataset.Column{Name: "c", Kind: dataset.KindCategorical, Labels: []string{"a", "a"}},
		)
		require.NoError(t, err)
		_, err = Apply(single, []string{"c"}, MethodOneHot)
		assert.Error(t, err)
	})
}
