package rets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParams_SetKeepsOrder(t *testing.T) {
	p := NewParams().Set("Select", "ListingID").Set("Limit", 10).Set("Offset", 1)
	require.Equal(t, "Select=ListingID&Limit=10&Offset=1", p.Encode())

	p.Set("Limit", 20)
	require.Equal(t, "Select=ListingID&Limit=20&Offset=1", p.Encode())
	require.Equal(t, 3, p.Len())
}

func TestParams_Delete(t *testing.T) {
	p := NewParams().Set("a", 1).Set("b", 2).Set("c", 3)
	p.Delete("b")
	p.Delete("missing")
	require.Equal(t, "a=1&c=3", p.Encode())
}

func TestParams_NotEscaped(t *testing.T) {
	p := NewParams().Set("Query", "(ListPrice=300000+),(City=|Boston,Salem)")
	require.Equal(t, "Query=(ListPrice=300000+),(City=|Boston,Salem)", p.Encode())
}

func TestParams_Nil(t *testing.T) {
	var p *Params
	require.Equal(t, 0, p.Len())
	require.Equal(t, "", p.Encode())

	_, ok := p.Get("a")
	require.False(t, ok)

	c := p.Clone()
	c.Set("a", "b")
	require.Equal(t, "a=b", c.Encode())

	require.NotPanics(t, func() { p.Delete("a") })

	p = p.Set("limit", 5).Set("Select", "ListingID")
	require.Equal(t, "limit=5&Select=ListingID", p.Encode())
}

func TestParams_CloneIsIndependent(t *testing.T) {
	p := NewParams().Set("a", 1)
	c := p.Clone()
	c.Set("a", 2).Set("b", 3)

	v, _ := p.Get("a")
	require.Equal(t, "1", v)
	require.Equal(t, 1, p.Len())
}
