package io

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gasdiff"
)

func TestReadStatic(t *testing.T) {
	dir := t.TempDir()
	st, err := ReadStatic(writeFile(t, dir, "static.txt", ExampleStaticFile+"\n\n"))
	require.NoError(t, err)
	assert.Equal(t, Static{
		N: 100, MaxStep: 1000, Radius: 0.0015, Mass: 1, Velocity: 0.01,
		MainWidth: 0.09, MainHeight: 0.09, MinorWidth: 0.09, MinorHeight: 0.03,
	}, *st)

	c, err := st.Chamber(-1)
	require.NoError(t, err)
	assert.InDelta(t, 0.03, c.Offset, 1e-15)
}

func TestReadStaticErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"order":     "MAXSTEP 1000\nN 100\n",
		"tokens":    "N 100 200\n",
		"numeric":   "N lots\n",
		"float int": "N 1.5\n",
		"missing":   "N 100\nMAXSTEP 10\n",
		"extra":     ExampleStaticFile + "\nCOLOR 3\n",
		"negative":  "N -1\nMAXSTEP 1\nRADIUS 1\nMASS 1\nVELOCITY 1\n" +
			"MAINWIDTH 1\nMAINHEIGHT 1\nMINORWIDTH 1\nMINORHEIGHT 1\n",
	}
	for name, body := range cases {
		_, err := ReadStatic(writeFile(t, dir, "static.txt", body))
		require.Error(t, err, name)
		_, ok := err.(*ConfigError)
		assert.True(t, ok, "%s: %v", name, err)
	}
}

func TestStaticChamberDegenerate(t *testing.T) {
	st := Static{
		N: 1, Radius: 0.02, Mass: 1,
		MainWidth: 0.09, MainHeight: 0.09, MinorWidth: 0.09, MinorHeight: 0.03,
	}
	_, err := st.Chamber(-1)
	assert.Error(t, err, "radius too large for aperture")

	st.Radius, st.MinorHeight = 0.001, 0
	_, err = st.Chamber(-1)
	assert.Error(t, err, "closed aperture")
}

func TestGenerate(t *testing.T) {
	st := &Static{
		N: 100, Radius: 0.0015, Mass: 2, Velocity: 0.01,
		MainWidth: 0.09, MainHeight: 0.09, MinorWidth: 0.09, MinorHeight: 0.03,
	}
	c, err := st.Chamber(-1)
	require.NoError(t, err)

	ps, err := Generate(st, c, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, ps, 100)
	assert.NoError(t, gasdiff.Validate(ps, c))
	for i := range ps {
		assert.InDelta(t, 0.01, ps[i].Vel.Norm(), 1e-12)
		assert.False(t, c.InMinor(ps[i].Pos))
		assert.Equal(t, 2.0, ps[i].Mass)
	}

	again, err := Generate(st, c, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, ps, again)

	st.N = 100000
	_, err = Generate(st, c, rand.New(rand.NewSource(1)))
	assert.Error(t, err, "more particles than fit")
}
