package objwrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
)

// TestScenarioSet covers set on a two-key schema.
func TestScenarioSet(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01", "b": "02"})

	assert.False(t, w.Set("c", "03"))
	assert.True(t, w.Set("b", "04"))
}

// TestScenarioGet continues TestScenarioSet with reads.
func TestScenarioGet(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01", "b": "02"})
	w.Set("c", "03")
	w.Set("b", "04")

	v, ok := w.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "04", v)

	v, ok = w.Get("c")
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

// TestScenarioFindKeys covers duplicate values across keys.
func TestScenarioFindKeys(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01", "b": "02", "bb": "02", "bbb": "02"})

	assert.Empty(t, w.FindKeys("03"))
	assert.ElementsMatch(t, []string{"b", "bb", "bbb"}, w.FindKeys("02"))
}

func TestNew_CopiesInput(t *testing.T) {
	initial := map[string]int{"x": 1, "y": 2}
	w := objwrap.New(initial)

	initial["x"] = 100
	initial["z"] = 3

	v, ok := w.Get("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.False(t, w.Has("z"))
	assert.Equal(t, 2, w.Len())
}

func TestNew_NilMap(t *testing.T) {
	w := objwrap.New[string](nil)

	assert.Equal(t, 0, w.Len())
	assert.False(t, w.Set("a", "x"))
	assert.NotNil(t, w.Snapshot())
	assert.Empty(t, w.FindKeys(""))
}

func TestNew_LexicalOrder(t *testing.T) {
	w := objwrap.New(map[string]int{"c": 1, "a": 1, "b": 1})

	assert.Equal(t, []string{"a", "b", "c"}, w.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, w.FindKeys(1))
}

func TestNewOrdered(t *testing.T) {
	tests := []struct {
		name     string
		entries  []objwrap.Entry[string]
		wantKeys []string
		wantSnap map[string]string
	}{
		{
			"keeps given order",
			[]objwrap.Entry[string]{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}},
			[]string{"b", "a"},
			map[string]string{"a": "1", "b": "2"},
		},
		{
			"duplicate keeps first position and last value",
			[]objwrap.Entry[string]{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}, {Key: "b", Value: "9"}},
			[]string{"b", "a"},
			map[string]string{"a": "1", "b": "9"},
		},
		{
			"empty",
			nil,
			[]string{},
			map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := objwrap.NewOrdered(tt.entries)
			assert.Equal(t, tt.wantKeys, w.Keys())
			assert.Equal(t, tt.wantSnap, w.Snapshot())
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{"existing key", "a", "new", true},
		{"same value", "a", "01", true},
		{"empty value", "b", "", true},
		{"missing key", "c", "03", false},
		{"empty key", "", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := objwrap.New(map[string]string{"a": "01", "b": "02"})
			before := w.Snapshot()

			got := w.Set(tt.key, tt.value)
			assert.Equal(t, tt.want, got)

			if tt.want {
				v, ok := w.Get(tt.key)
				require.True(t, ok)
				assert.Equal(t, tt.value, v)
			} else {
				assert.Equal(t, before, w.Snapshot())
			}
			assert.Equal(t, []string{"a", "b"}, w.Keys())
		})
	}
}

// TestGet_ZeroValueDistinctFromAbsent verifies the found flag separates a
// stored zero value from a missing key.
func TestGet_ZeroValueDistinctFromAbsent(t *testing.T) {
	w := objwrap.New(map[string]int{"zero": 0})

	v, ok := w.Get("zero")
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	v, ok = w.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestSnapshot_Independent(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01", "b": "02"})

	snap := w.Snapshot()
	snap["a"] = "changed"
	snap["c"] = "new"

	v, _ := w.Get("a")
	assert.Equal(t, "01", v)
	assert.False(t, w.Has("c"))
	assert.Equal(t, []string{"a"}, w.FindKeys("01"))
	assert.Empty(t, w.FindKeys("changed"))

	// And the other direction: later Sets do not reach an old snapshot.
	w.Set("b", "99")
	assert.Equal(t, "99", w.Snapshot()["b"])
	assert.Equal(t, "changed", snap["a"])
	assert.Equal(t, "02", snap["b"])
}

func TestEntries_Independent(t *testing.T) {
	w := objwrap.NewOrdered([]objwrap.Entry[int]{{Key: "x", Value: 1}, {Key: "y", Value: 2}})

	entries := w.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, objwrap.Entry[int]{Key: "x", Value: 1}, entries[0])

	entries[0].Value = 42
	v, _ := w.Get("x")
	assert.Equal(t, 1, v)
}

func TestKeys_Independent(t *testing.T) {
	w := objwrap.New(map[string]int{"a": 1, "b": 2})

	keys := w.Keys()
	keys[0] = "zzz"

	assert.Equal(t, []string{"a", "b"}, w.Keys())
	assert.True(t, w.Set("a", 3))
}

func TestFindKeys(t *testing.T) {
	w := objwrap.NewOrdered([]objwrap.Entry[int]{
		{Key: "one", Value: 1},
		{Key: "two", Value: 2},
		{Key: "uno", Value: 1},
		{Key: "eins", Value: 1},
	})

	tests := []struct {
		name  string
		value int
		want  []string
	}{
		{"multiple in order", 1, []string{"one", "uno", "eins"}},
		{"single", 2, []string{"two"}},
		{"none", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.FindKeys(tt.value)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindKeys_TracksSet(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "x", "b": "y"})

	w.Set("b", "x")
	assert.Equal(t, []string{"a", "b"}, w.FindKeys("x"))

	w.Set("a", "z")
	assert.Equal(t, []string{"b"}, w.FindKeys("x"))
	assert.Empty(t, w.FindKeys("y"))
}

func TestFindKeys_HeterogeneousValues(t *testing.T) {
	w := objwrap.NewOrdered([]objwrap.Entry[any]{
		{Key: "s", Value: "1"},
		{Key: "i", Value: 1},
		{Key: "f", Value: 1.0},
		{Key: "n", Value: nil},
		{Key: "list", Value: []string{"a"}},
		{Key: "m", Value: map[string]any{"k": "v"}},
	})

	assert.Equal(t, []string{"i"}, w.FindKeys(1))
	assert.Equal(t, []string{"s"}, w.FindKeys("1"))
	assert.Equal(t, []string{"n"}, w.FindKeys(nil))

	assert.NotPanics(t, func() {
		assert.Empty(t, w.FindKeys([]string{"a"}))
		assert.Empty(t, w.FindKeys(map[string]any{"k": "v"}))
	})
}

func TestAll(t *testing.T) {
	w := objwrap.NewOrdered([]objwrap.Entry[int]{{Key: "b", Value: 2}, {Key: "a", Value: 1}, {Key: "c", Value: 3}})

	var keys []string
	var sum int
	for k, v := range w.All() {
		keys = append(keys, k)
		sum += v
	}
	assert.Equal(t, []string{"b", "a", "c"}, keys)
	assert.Equal(t, 6, sum)

	t.Run("early break", func(t *testing.T) {
		var seen []string
		for k := range w.All() {
			seen = append(seen, k)
			break
		}
		assert.Equal(t, []string{"b"}, seen)
	})
}

func TestClone(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01"}, objwrap.WithName("orig"))
	c := w.Clone()

	assert.True(t, c.Set("a", "changed"))
	v, _ := w.Get("a")
	assert.Equal(t, "01", v)
	assert.Equal(t, "orig", c.Name())
	assert.Equal(t, w.Keys(), c.Keys())
}

func TestMarshalJSON(t *testing.T) {
	w := objwrap.NewOrdered([]objwrap.Entry[any]{
		{Key: "z", Value: "last letter"},
		{Key: "a", Value: 1},
		{Key: "quote\"d", Value: true},
	})

	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last letter","a":1,"quote\"d":true}`, string(data))

	empty, err := json.Marshal(objwrap.New[int](nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestWithName(t *testing.T) {
	assert.Equal(t, "default", objwrap.New[int](nil).Name())
	assert.Equal(t, "cfg", objwrap.New[int](nil, objwrap.WithName("cfg")).Name())
	assert.Equal(t, "default", objwrap.New[int](nil, objwrap.WithName("")).Name())
}

func TestWithLogger_RejectedSet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	w := objwrap.New(map[string]string{"a": "01"}, objwrap.WithName("doc"), objwrap.WithLogger(logger))
	w.Set("a", "02")
	assert.Zero(t, buf.Len(), "accepted Set should not log")

	w.Set("nope", "x")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "nope", record["key"])
	assert.Equal(t, "doc", record["wrapper"])
}

// recordingMetrics captures metric calls for assertions.
type recordingMetrics struct {
	mu      sync.Mutex
	sets    []bool
	lookups []string
	matches []int
}

func (r *recordingMetrics) RecordSet(_ context.Context, _ string, accepted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, accepted)
}

func (r *recordingMetrics) RecordLookup(_ context.Context, _, op string, matches int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, op)
	r.matches = append(r.matches, matches)
}

func (r *recordingMetrics) RecordSnapshot(_ context.Context, _ string, _ int64) {}

func TestWithMetrics(t *testing.T) {
	rec := &recordingMetrics{}
	w := objwrap.New(map[string]string{"a": "01", "b": "01"}, objwrap.WithMetrics(rec))

	w.Set("a", "01")
	w.Set("c", "03")
	w.Get("a")
	w.Get("c")
	w.FindKeys("01")

	assert.Equal(t, []bool{true, false}, rec.sets)
	assert.Equal(t, []string{"get", "get", "find"}, rec.lookups)
	assert.Equal(t, []int{1, 0, 2}, rec.matches)
}

func TestWithMetrics_NilIgnored(t *testing.T) {
	w := objwrap.New(map[string]string{"a": "01"}, objwrap.WithMetrics(nil))

	assert.NotPanics(t, func() {
		w.Set("a", "x")
		w.Get("a")
		w.FindKeys("x")
	})
}

func TestZeroValueWrapper(t *testing.T) {
	var w objwrap.Wrapper[string]

	assert.False(t, w.Set("a", "x"))
	_, ok := w.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{}, w.FindKeys("x"))
	assert.Equal(t, 0, w.Len())
	assert.False(t, w.Has("a"))

	data, err := w.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
