package session_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type profile struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Tags  []string `json:"tags"`
	Admin bool     `json:"admin"`
}

func TestNewData(t *testing.T) {
	t.Parallel()

	t.Run("empty container", func(t *testing.T) {
		d := session.NewData()
		assert.True(t, d.IsEmpty())
		assert.False(t, d.HasChanged())
		assert.Empty(t, d.Values())
	})

	t.Run("from values", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"foo": "bar", "n": 1})
		require.NoError(t, err)
		assert.False(t, d.IsEmpty())
		assert.False(t, d.HasChanged())

		v, ok := d.Lookup("n")
		require.True(t, ok)
		assert.Equal(t, float64(1), v)
	})

	t.Run("nil values", func(t *testing.T) {
		d, err := session.NewDataFrom(nil)
		require.NoError(t, err)
		assert.True(t, d.IsEmpty())
		assert.False(t, d.HasChanged())
	})

	t.Run("rejects non representable values", func(t *testing.T) {
		_, err := session.NewDataFrom(map[string]any{"ch": make(chan int)})
		assert.ErrorIs(t, err, session.ErrNotRepresentable)
	})
}

func TestData_Set(t *testing.T) {
	t.Parallel()

	t.Run("normalizes structs into maps", func(t *testing.T) {
		d := session.NewData()
		require.NoError(t, d.Set("profile", profile{Name: "ann", Age: 30, Tags: []string{"a"}}))

		v, ok := d.Lookup("profile")
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"name":  "ann",
			"age":   float64(30),
			"tags":  []any{"a"},
			"admin": false,
		}, v)
		assert.True(t, d.HasChanged())
	})

	t.Run("does not keep references to caller data", func(t *testing.T) {
		d := session.NewData()
		input := map[string]any{"k": "v"}
		require.NoError(t, d.Set("m", input))

		input["k"] = "changed"
		v, _ := d.Lookup("m")
		assert.Equal(t, map[string]any{"k": "v"}, v)
	})

	t.Run("same value is not a change", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{
			"s":    "str",
			"n":    42,
			"f":    1.5,
			"b":    true,
			"null": nil,
			"list": []any{1, "two", []int{3}},
			"obj":  map[string]any{"nested": map[string]int{"x": 1}},
		})
		require.NoError(t, err)

		for k, v := range d.Values() {
			require.NoError(t, d.Set(k, v))
		}
		assert.False(t, d.HasChanged())
	})

	t.Run("equivalent typed value is not a change", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"n": float64(7)})
		require.NoError(t, err)

		require.NoError(t, d.Set("n", 7))
		assert.False(t, d.HasChanged())
	})

	t.Run("rejects unsupported values", func(t *testing.T) {
		d := session.NewData()

		cases := map[string]any{
			"channel":  make(chan int),
			"function": func() {},
			"nan":      math.NaN(),
		}
		for name, v := range cases {
			err := d.Set(name, v)
			assert.ErrorIs(t, err, session.ErrNotRepresentable, name)
		}
		assert.True(t, d.IsEmpty())
		assert.False(t, d.HasChanged())
	})

	t.Run("rejects cycles", func(t *testing.T) {
		type node struct {
			Next *node `json:"next"`
		}
		n := &node{}
		n.Next = n

		err := session.NewData().Set("cycle", n)
		assert.ErrorIs(t, err, session.ErrNotRepresentable)
	})
}

func TestData_Get(t *testing.T) {
	t.Parallel()

	d, err := session.NewDataFrom(map[string]any{"foo": "bar"})
	require.NoError(t, err)

	t.Run("stored value", func(t *testing.T) {
		v, err := d.Get("foo", "default")
		require.NoError(t, err)
		assert.Equal(t, "bar", v)
	})

	t.Run("normalized default", func(t *testing.T) {
		v, err := d.Get("missing", profile{Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "x", "age": float64(0), "tags": nil, "admin": false}, v)
	})

	t.Run("nil default", func(t *testing.T) {
		v, err := d.Get("missing", nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("invalid default", func(t *testing.T) {
		_, err := d.Get("missing", make(chan int))
		assert.ErrorIs(t, err, session.ErrNotRepresentable)
	})

	assert.False(t, d.HasChanged())
}

func TestData_RemoveAndClear(t *testing.T) {
	t.Parallel()

	t.Run("remove absent key is not a change", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"a": 1})
		require.NoError(t, err)

		d.Remove("missing")
		assert.False(t, d.HasChanged())
	})

	t.Run("remove present key", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"a": 1, "b": 2})
		require.NoError(t, err)

		d.Remove("a")
		assert.False(t, d.Has("a"))
		assert.True(t, d.Has("b"))
		assert.True(t, d.HasChanged())
	})

	t.Run("clear non-empty session", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"a": 1})
		require.NoError(t, err)

		d.Clear()
		assert.True(t, d.IsEmpty())
		assert.True(t, d.HasChanged())
	})

	t.Run("clear empty session", func(t *testing.T) {
		d := session.NewData()
		d.Clear()
		assert.True(t, d.IsEmpty())
		assert.False(t, d.HasChanged())
	})

	t.Run("set then remove restores original state", func(t *testing.T) {
		d := session.NewData()
		require.NoError(t, d.Set("tmp", 1))
		d.Remove("tmp")
		assert.False(t, d.HasChanged())
	})
}

func TestData_ReturnedValuesAreCopies(t *testing.T) {
	t.Parallel()

	t.Run("lookup map", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"obj": map[string]any{"k": "v"}})
		require.NoError(t, err)

		v, ok := d.Lookup("obj")
		require.True(t, ok)
		v.(map[string]any)["k"] = "mutated"
		v.(map[string]any)["ch"] = make(chan int)

		assert.False(t, d.HasChanged())
		assert.Equal(t, map[string]any{"obj": map[string]any{"k": "v"}}, d.Values())
	})

	t.Run("get slice", func(t *testing.T) {
		d, err := session.NewDataFrom(map[string]any{"list": []any{1, "a"}})
		require.NoError(t, err)

		v, err := d.Get("list", nil)
		require.NoError(t, err)
		v.([]any)[0] = "mutated"

		assert.False(t, d.HasChanged())
		again, _ := d.Lookup("list")
		assert.Equal(t, []any{1.0, "a"}, again)
	})

	t.Run("changes go through set", func(t *testing.T) {
		d := session.NewData()
		require.NoError(t, d.Set("obj", map[string]any{"k": "v"}))

		v, _ := d.Lookup("obj")
		m := v.(map[string]any)
		m["k"] = "updated"
		require.NoError(t, d.Set("obj", m))

		got, _ := d.Lookup("obj")
		assert.Equal(t, map[string]any{"k": "updated"}, got)
		assert.True(t, d.HasChanged())
	})
}

func TestData_RoundTrip(t *testing.T) {
	t.Parallel()

	payloads := []map[string]any{
		{},
		{"s": "x"},
		{"n": 3.25, "z": nil, "t": true},
		{"deep": map[string]any{"a": []any{map[string]any{"b": []any{nil, 1.0, "c"}}}}},
	}

	for _, p := range payloads {
		d, err := session.NewDataFrom(p)
		require.NoError(t, err)

		again, err := session.NewDataFrom(d.Values())
		require.NoError(t, err)
		assert.Equal(t, d.Values(), again.Values())
		assert.Equal(t, p, again.Values())
	}
}

func TestTypedGetters(t *testing.T) {
	t.Parallel()

	d, err := session.NewDataFrom(map[string]any{
		"str":   "hello",
		"int":   10,
		"frac":  2.5,
		"bool":  true,
		"user":  profile{Name: "bob", Age: 40},
		"wrong": "x",
	})
	require.NoError(t, err)

	s, ok := session.GetString(d, "str")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	i, ok := session.GetInt(d, "int")
	assert.True(t, ok)
	assert.Equal(t, 10, i)

	_, ok = session.GetInt(d, "frac")
	assert.False(t, ok)

	f, ok := session.GetFloat(d, "frac")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	b, ok := session.GetBool(d, "bool")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = session.GetBool(d, "wrong")
	assert.False(t, ok)

	_, ok = session.GetString(d, "missing")
	assert.False(t, ok)

	var p profile
	require.NoError(t, session.Decode(d, "user", &p))
	assert.Equal(t, "bob", p.Name)
	assert.Equal(t, 40, p.Age)

	assert.ErrorIs(t, session.Decode(d, "missing", &p), session.ErrNotFound)
	assert.ErrorIs(t, session.Decode(d, "wrong", &p), session.ErrTypeMismatch)
}
