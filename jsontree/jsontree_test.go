package jsontree_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/makerfetch/jsontree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, doc string) jsontree.Value {
	t.Helper()
	v, err := jsontree.Parse([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("preserves member order", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"b":1,"a":"x","c":[true,null]}`)
		obj, ok := jsontree.AsObject(v)
		require.True(t, ok)
		require.Len(t, obj.Members, 3)
		assert.Equal(t, "b", obj.Members[0].Key)
		assert.Equal(t, "a", obj.Members[1].Key)
		assert.Equal(t, "c", obj.Members[2].Key)

		arr, ok := jsontree.AsArray(obj.Members[2].Value)
		require.True(t, ok)
		assert.Equal(t, jsontree.Bool(true), arr.Items[0])
		assert.Equal(t, jsontree.Null{}, arr.Items[1])
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := jsontree.Parse([]byte("   \n"))
		require.ErrorIs(t, err, jsontree.ErrEmpty)
	})

	t.Run("rejects non-JSON input", func(t *testing.T) {
		t.Parallel()

		_, err := jsontree.Parse([]byte("<html>blocked</html>"))
		require.Error(t, err)
	})

	t.Run("rejects trailing documents", func(t *testing.T) {
		t.Parallel()

		_, err := jsontree.Parse([]byte(`{"a":1} {"b":2}`))
		require.Error(t, err)
	})

	t.Run("accepts nesting up to the depth limit", func(t *testing.T) {
		t.Parallel()

		doc := strings.Repeat("[", jsontree.MaxDepth) + strings.Repeat("]", jsontree.MaxDepth)
		_, err := jsontree.Parse([]byte(doc))
		require.NoError(t, err)
	})

	t.Run("rejects nesting beyond the depth limit", func(t *testing.T) {
		t.Parallel()

		doc := strings.Repeat("[", jsontree.MaxDepth+1) + strings.Repeat("]", jsontree.MaxDepth+1)
		_, err := jsontree.Parse([]byte(doc))
		require.ErrorIs(t, err, jsontree.ErrTooDeep)
	})

	t.Run("rejects an unterminated deep document without exhausting the stack", func(t *testing.T) {
		t.Parallel()

		_, err := jsontree.Parse([]byte(strings.Repeat(`{"a":`, 1<<20)))
		require.ErrorIs(t, err, jsontree.ErrTooDeep)
	})

	t.Run("round-trips through MarshalJSON in order", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"z":1,"a":[{"k":"v"}]}`)
		obj, _ := jsontree.AsObject(v)
		out, err := obj.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"z":1,"a":[{"k":"v"}]}`, string(out))
		assert.Equal(t, `{"z":1,"a":[{"k":"v"}]}`, string(out))
	})
}

func TestWalk(t *testing.T) {
	t.Parallel()

	t.Run("visits breadth-first in insertion order", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"a":{"deep":1},"b":2,"c":[3]}`)
		var keys []string
		jsontree.Walk(v, func(key string, _ jsontree.Value, _ jsontree.Value) bool {
			keys = append(keys, key)
			return true
		})
		assert.Equal(t, []string{"", "a", "b", "c", "deep", "0"}, keys)
	})

	t.Run("terminates on cyclic structures", func(t *testing.T) {
		t.Parallel()

		obj := &jsontree.Object{}
		arr := &jsontree.Array{Items: []jsontree.Value{obj}}
		obj.Set("self", obj)
		obj.Set("list", arr)

		count := 0
		jsontree.Walk(obj, func(string, jsontree.Value, jsontree.Value) bool {
			count++
			return true
		})
		// root, self, list, list[0]; repeated identities are not expanded.
		assert.Equal(t, 4, count)
	})

	t.Run("respects the node budget", func(t *testing.T) {
		t.Parallel()

		arr := &jsontree.Array{}
		for i := 0; i < 100; i++ {
			arr.Items = append(arr.Items, jsontree.Number(i))
		}
		count := 0
		jsontree.WalkLimit(arr, 10, func(string, jsontree.Value, jsontree.Value) bool {
			count++
			return true
		})
		assert.Equal(t, 10, count)
	})

	t.Run("stops when the visitor returns false", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"a":1,"b":2,"c":3}`)
		count := 0
		jsontree.Walk(v, func(key string, _ jsontree.Value, _ jsontree.Value) bool {
			count++
			return key != "a"
		})
		assert.Equal(t, 2, count)
	})
}

func TestFindString(t *testing.T) {
	t.Parallel()

	t.Run("returns first match in traversal order", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"nested":{"printerName":"deep"},"printer":"shallow"}`)
		s, ok := jsontree.FindString(v, "printer")
		require.True(t, ok)
		assert.Equal(t, "shallow", s)
	})

	t.Run("matches keys case-insensitively", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"DevProductName":"X1 Carbon"}`)
		s, ok := jsontree.FindString(v, "devproductname")
		require.True(t, ok)
		assert.Equal(t, "X1 Carbon", s)
	})

	t.Run("skips blank strings", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"material":"  ","info":{"materialType":"PETG"}}`)
		s, ok := jsontree.FindString(v, "material")
		require.True(t, ok)
		assert.Equal(t, "PETG", s)
	})

	t.Run("reports missing values", func(t *testing.T) {
		t.Parallel()

		_, ok := jsontree.FindString(mustParse(t, `{"a":1}`), "printer")
		assert.False(t, ok)
	})
}

func TestFindNumber(t *testing.T) {
	t.Parallel()

	t.Run("reads numbers embedded in strings", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"weight":"37.25 g"}`)
		n, ok := jsontree.FindNumber(v, "weight")
		require.True(t, ok)
		assert.InDelta(t, 37.25, n, 1e-9)
	})

	t.Run("skips values without a number", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"weight":"n/a","stats":{"weightG":12}}`)
		n, ok := jsontree.FindNumber(v, "weight")
		require.True(t, ok)
		assert.InDelta(t, 12.0, n, 1e-9)
	})
}

func TestFindInteger(t *testing.T) {
	t.Parallel()

	v := mustParse(t, `{"wallLoops":3.7}`)
	n, ok := jsontree.FindInteger(v, "wallloops")
	require.True(t, ok)
	assert.Equal(t, int64(3), n)

	_, ok = jsontree.FindInteger(mustParse(t, `{"profileId":0}`), "profileid")
	assert.False(t, ok)
}

func TestFindBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  string
		want bool
	}{
		{`{"enableSupport":true}`, true},
		{`{"enableSupport":"yes"}`, true},
		{`{"enableSupport":"ON"}`, true},
		{`{"enableSupport":"off"}`, false},
		{`{"enableSupport":"no"}`, false},
	}
	for _, tt := range tests {
		got, ok := jsontree.FindBool(mustParse(t, tt.doc), "support")
		require.True(t, ok, tt.doc)
		assert.Equal(t, tt.want, got, tt.doc)
	}

	_, ok := jsontree.FindBool(mustParse(t, `{"enableSupport":"maybe"}`), "support")
	assert.False(t, ok)
}

func TestFindDuration(t *testing.T) {
	t.Parallel()

	t.Run("reads prediction as seconds", func(t *testing.T) {
		t.Parallel()

		h, ok := jsontree.FindDuration(mustParse(t, `{"prediction":60138}`), "prediction")
		require.True(t, ok)
		assert.InDelta(t, 16.705, h, 0.001)
	})

	t.Run("scales by key unit", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			doc  string
			want float64
		}{
			{`{"printTimeMs":7200000}`, 2},
			{`{"printHours":3.5}`, 3.5},
			{`{"printMinutes":90}`, 1.5},
			{`{"costTime":5400}`, 1.5},
			{`{"durationSeconds":1800}`, 0.5},
		}
		for _, tt := range tests {
			h, ok := jsontree.FindDuration(mustParse(t, tt.doc), "print", "time", "duration")
			require.True(t, ok, tt.doc)
			assert.InDelta(t, tt.want, h, 1e-9, tt.doc)
		}
	})

	t.Run("ignores timestamp keys", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"createTime":1700000000,"printTime":3600}`)
		h, ok := jsontree.FindDuration(v, "time")
		require.True(t, ok)
		assert.InDelta(t, 1.0, h, 1e-9)
	})

	t.Run("parses string formats", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			in   string
			want float64
		}{
			{"02:30:00", 2.5},
			{"1:15", 1.25},
			{"2h 30m", 2.5},
			{"1d 2h", 26},
			{"16.7 h", 16.7},
			{"45m 36s", 0.76},
			{"72", 72},
			{"90", 1.5},
			{"7200", 120},
			{"7201", 7201.0 / 3600},
		}
		for _, tt := range tests {
			h, ok := jsontree.ParseDurationHours(tt.in)
			require.True(t, ok, tt.in)
			assert.InDelta(t, tt.want, h, 1e-9, tt.in)
		}
	})

	t.Run("skips non-positive values", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"prediction":0,"plate":{"prediction":3600}}`)
		h, ok := jsontree.FindDuration(v, "prediction")
		require.True(t, ok)
		assert.InDelta(t, 1.0, h, 1e-9)
	})
}

func TestFindArray(t *testing.T) {
	t.Parallel()

	v := mustParse(t, `{
		"instances":[{"id":1}],
		"data":{"instanceList":[{"id":2},{"id":3},"x"]},
		"tags":["a","b","c"]
	}`)

	arr, ok := jsontree.FindArray(v, "instance")
	require.True(t, ok)
	assert.Equal(t, 2, arr.ObjectCount())

	_, ok = jsontree.FindArray(v, "tags")
	assert.False(t, ok, "arrays without objects are not candidates")
}

func TestCollectArrays(t *testing.T) {
	t.Parallel()

	t.Run("includes the root array", func(t *testing.T) {
		t.Parallel()

		arrays := jsontree.CollectArrays(mustParse(t, `[{"id":1}]`), "hits")
		require.Len(t, arrays, 1)
	})

	t.Run("collects hinted arrays in order", func(t *testing.T) {
		t.Parallel()

		v := mustParse(t, `{"related":[{"id":9}],"hits":[{"id":1}],"more":{"instances":[{"id":2}]}}`)
		arrays := jsontree.CollectArrays(v, "hits", "instances")
		require.Len(t, arrays, 2)
		assert.Equal(t, 1, arrays[0].ObjectCount())
	})
}

func TestFindObject(t *testing.T) {
	t.Parallel()

	v := mustParse(t, `{"props":{"pageProps":{"design":{"title":"Benchy"}}}}`)
	obj, ok := jsontree.FindObject(v, "design")
	require.True(t, ok)
	title, _ := obj.Get("title")
	assert.Equal(t, jsontree.String("Benchy"), title)
}
