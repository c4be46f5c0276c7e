package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTruthy(t *testing.T) {
	falsy := []any{nil, false}
	truthy := []any{true, 0.0, "", "x", 1.0}

	for _, v := range falsy {
		require.False(t, IsTruthy(v), "%#v should be falsy", v)
	}
	for _, v := range truthy {
		require.True(t, IsTruthy(v), "%#v should be truthy", v)
	}
}

func TestEqual_NilOnlyEqualsNil(t *testing.T) {
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(nil, false))
	require.False(t, Equal(false, nil))
}

func TestEqual_DistinctVariantsNeverEqual(t *testing.T) {
	require.False(t, Equal("1", 1.0))
	require.False(t, Equal(true, 1.0))
	require.False(t, Equal(false, 0.0))
}

func TestEqual_ReflexiveForEveryValue(t *testing.T) {
	for _, v := range []any{nil, true, false, 0.0, 1.5, "", "x"} {
		require.True(t, Equal(v, v), "%#v should equal itself", v)
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "nil"},
		{true, "true"},
		{false, "false"},
		{3.0, "3"},
		{3.5, "3.5"},
		{"hi", "hi"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Stringify(c.in))
	}
}

func TestNativeCallable(t *testing.T) {
	n := &Native{Name: "clock", Arg: 0, Fn: func(_ []any) (any, error) { return 42.0, nil }}
	require.Equal(t, 0, n.Arity())
	require.Equal(t, "<native fn>", n.String())
	v, err := n.Call(nil, nil)
	require.NoError(t, err)
	require.Equal(t, 42.0, v)
}
