package corpus

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle-solver/internal/equation"
)

func TestNewSkipsBlanksCommentsAndDuplicates(t *testing.T) {
	c, err := New([]string{"# header", "", " 1+2=3 ", "2+1=3", "1+2=3", "\t"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 5, c.EquationLen())
	assert.Equal(t, equation.Equation("1+2=3"), c.At(0))

	i, ok := c.Index("2+1=3")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.False(t, c.Contains("3+0=3"))
}

func TestNewErrors(t *testing.T) {
	_, err := New([]string{"# only comments", ""})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New([]string{"1+2=3", "10+2=12"})
	assert.ErrorIs(t, err, ErrMixedLength)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eq.txt")
	require.NoError(t, os.WriteFile(path, []byte("1+2=3\n4-1=3\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []equation.Equation{"1+2=3", "4-1=3"}, c.Equations())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader("9*8=72\n6*7=42\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, Stats{Equations: 2, Length: 6, Shapes: 1}, c.Stats())
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 8, c.EquationLen())
	assert.Greater(t, c.Len(), 10000)
	assert.True(t, c.Contains("3*4+5=17"))

	c2, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, c.Len(), c2.Len())
}

func TestRandomIsSeeded(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	a := c.Random(rand.New(rand.NewPCG(3, 4)))
	b := c.Random(rand.New(rand.NewPCG(3, 4)))
	assert.Equal(t, a, b)
}
