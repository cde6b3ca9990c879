package libfunc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table := Default()
	for _, tc := range []struct {
		name string
		exp  bool
	}{
		{name: "sqrt", exp: true},
		{name: "sqrtf", exp: true},
		{name: "pow", exp: true},
		{name: "fminf", exp: true},
		{name: "malloc", exp: false},
		{name: "printf", exp: false},
		{name: "rand", exp: false},
		{name: "", exp: false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.exp, table.IsPure(tc.name))
		})
	}
}

func TestTable_Merge(t *testing.T) {
	table := Default()
	overlay := New()
	overlay.Set("my_hash", true)
	overlay.Set("sqrt", false)
	table.Merge(overlay)

	require.True(t, table.IsPure("my_hash"))
	require.False(t, table.IsPure("sqrt"))
	require.True(t, table.IsPure("sqrtf"))
}

func TestTable_Names(t *testing.T) {
	var table Table
	require.False(t, table.IsPure("sqrt"))
	require.Empty(t, table.Names())

	table.Set("sin", true)
	table.Set("cos", true)
	table.Set("rand", false)
	require.Equal(t, []string{"cos", "sin"}, table.Names())
}
