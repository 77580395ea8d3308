package blackboard_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/arbor/pkg/blackboard"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlackboard_SetThenGet(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	require.NoError(t, blackboard.Set(bb, "alive", true))
	require.NoError(t, blackboard.Set(bb, "hp", 42))
	require.NoError(t, blackboard.Set(bb, "speed", 3.5))
	require.NoError(t, blackboard.Set(bb, "target", "orc"))

	alive, err := blackboard.Get[bool](bb, "alive")
	require.NoError(t, err)
	assert.True(t, alive)

	hp, err := blackboard.Get[int](bb, "hp")
	require.NoError(t, err)
	assert.Equal(t, 42, hp)

	speed, err := blackboard.Get[float64](bb, "speed")
	require.NoError(t, err)
	assert.Equal(t, 3.5, speed)

	target, err := blackboard.Get[string](bb, "target")
	require.NoError(t, err)
	assert.Equal(t, "orc", target)

	assert.Equal(t, []string{"alive", "hp", "speed", "target"}, bb.Keys())
	assert.Equal(t, 4, bb.Len())
}

func TestBlackboard_GetOrCreate_ZeroValues(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()

	b, err := blackboard.GetOrCreate[bool](bb, "b")
	require.NoError(t, err)
	assert.False(t, b.Get())

	i, err := blackboard.GetOrCreate[int](bb, "i")
	require.NoError(t, err)
	assert.Equal(t, 0, i.Get())

	f, err := blackboard.GetOrCreate[float64](bb, "f")
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.Get())

	s, err := blackboard.GetOrCreate[string](bb, "s")
	require.NoError(t, err)
	assert.Equal(t, "", s.Get())

	typ, ok := bb.Type("f")
	require.True(t, ok)
	assert.Equal(t, domain.TypeDouble, typ)
}

func TestBlackboard_GetOrCreate_ExistingKeySharesEntry(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	require.NoError(t, blackboard.Set(bb, "ammo", 12))

	h, err := blackboard.GetOrCreate[int](bb, "ammo")
	require.NoError(t, err)
	assert.Equal(t, 12, h.Get())
	assert.Equal(t, "ammo", h.Key())
	assert.True(t, h.Valid())

	h.Set(11)
	got, err := blackboard.Get[int](bb, "ammo")
	require.NoError(t, err)
	assert.Equal(t, 11, got)

	require.NoError(t, blackboard.Set(bb, "ammo", 3))
	assert.Equal(t, 3, h.Get())
}

func TestBlackboard_TypeMismatch(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	require.NoError(t, blackboard.Set(bb, "hp", 10))

	err := blackboard.Set(bb, "hp", "ten")
	require.ErrorIs(t, err, domain.ErrTypeMismatch)

	var mismatch *domain.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "hp", mismatch.Key)
	assert.Equal(t, domain.TypeString, mismatch.Want)
	assert.Equal(t, domain.TypeInt, mismatch.Have)

	// The failed write must not have touched the entry.
	hp, err := blackboard.Get[int](bb, "hp")
	require.NoError(t, err)
	assert.Equal(t, 10, hp)

	_, err = blackboard.GetOrCreate[float64](bb, "hp")
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)

	_, err = blackboard.Get[bool](bb, "hp")
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestBlackboard_GetMissingKey(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	_, err := blackboard.Get[int](bb, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.False(t, bb.Has("missing"), "Get must not create keys")
}

func TestBlackboard_Strict(t *testing.T) {
	t.Parallel()

	bb := blackboard.New(blackboard.WithStrict())
	assert.True(t, bb.Strict())

	_, err := blackboard.GetOrCreate[int](bb, "hp")
	assert.ErrorIs(t, err, domain.ErrUnknownKey)
	assert.ErrorIs(t, blackboard.Set(bb, "hp", 1), domain.ErrUnknownKey)
	assert.Equal(t, 0, bb.Len())

	h, err := blackboard.Declare(bb, "hp", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, h.Get())

	_, err = blackboard.Declare(bb, "hp", 5)
	assert.ErrorIs(t, err, domain.ErrKeyDeclared)

	require.NoError(t, blackboard.Set(bb, "hp", 90))
	got, err := blackboard.GetOrCreate[int](bb, "hp")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Get())
}

func TestBlackboard_SnapshotRestore(t *testing.T) {
	t.Parallel()

	src := blackboard.New()
	require.NoError(t, blackboard.Set(src, "name", "guard"))
	require.NoError(t, blackboard.Set(src, "hp", 7))
	require.NoError(t, blackboard.Set(src, "alert", true))
	require.NoError(t, blackboard.Set(src, "range", 12.5))

	data, err := json.Marshal(src.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"key":"alert","type":"bool","value":true},
		{"key":"hp","type":"int","value":7},
		{"key":"name","type":"string","value":"guard"},
		{"key":"range","type":"double","value":12.5}
	]`, string(data))

	var entries []blackboard.Entry
	require.NoError(t, json.Unmarshal(data, &entries))

	dst := blackboard.New()
	require.NoError(t, dst.Restore(entries))
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestBlackboard_SnapshotNonFiniteDoubles(t *testing.T) {
	t.Parallel()

	src := blackboard.New()
	require.NoError(t, blackboard.Set(src, "far", math.Inf(1)))
	require.NoError(t, blackboard.Set(src, "floor", math.Inf(-1)))
	require.NoError(t, blackboard.Set(src, "noise", math.NaN()))

	data, err := json.Marshal(src.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"key":"far","type":"double","value":"+Inf"},
		{"key":"floor","type":"double","value":"-Inf"},
		{"key":"noise","type":"double","value":"NaN"}
	]`, string(data))

	var entries []blackboard.Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	dst := blackboard.New()
	require.NoError(t, dst.Restore(entries))

	far, err := blackboard.Get[float64](dst, "far")
	require.NoError(t, err)
	assert.True(t, math.IsInf(far, 1))
	floor, err := blackboard.Get[float64](dst, "floor")
	require.NoError(t, err)
	assert.True(t, math.IsInf(floor, -1))
	noise, err := blackboard.Get[float64](dst, "noise")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(noise))

	v, ok := dst.Lookup("far")
	require.True(t, ok)
	single, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"double","value":"+Inf"}`, string(single))
}

func TestHandle_Zero(t *testing.T) {
	t.Parallel()

	var h blackboard.Handle[int]
	assert.False(t, h.Valid())
	assert.Equal(t, "", h.Key())
	assert.Equal(t, 0, h.Get())
	assert.NotPanics(t, func() { h.Set(5) })
	assert.Equal(t, 0, h.Get())

	bb := blackboard.New(blackboard.WithStrict())
	missing, err := blackboard.GetOrCreate[string](bb, "mode")
	require.Error(t, err)
	assert.False(t, missing.Valid())
	assert.Equal(t, "", missing.Get())
}

func TestBlackboard_RestoreIsAllOrNothing(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	require.NoError(t, blackboard.Set(bb, "hp", 1))

	err := bb.Restore([]blackboard.Entry{
		{Key: "fresh", Value: blackboard.StringValue("x")},
		{Key: "hp", Value: blackboard.StringValue("one")},
	})
	require.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.False(t, bb.Has("fresh"))

	err = bb.Restore([]blackboard.Entry{
		{Key: "dup", Value: blackboard.IntValue(1)},
		{Key: "dup", Value: blackboard.BoolValue(true)},
	})
	require.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.False(t, bb.Has("dup"))
}

func TestBlackboard_Seed(t *testing.T) {
	t.Parallel()

	bb := blackboard.New()
	require.NoError(t, bb.Seed(map[string]any{
		"hp":     100,
		"alert":  false,
		"radius": 2.5,
		"mode":   "patrol",
	}))

	assert.Equal(t, map[string]any{
		"hp":     100,
		"alert":  false,
		"radius": 2.5,
		"mode":   "patrol",
	}, bb.Map())

	err := bb.Seed(map[string]any{"list": []int{1}})
	assert.Error(t, err)
}

func TestEntry_UnmarshalRejectsBadPayload(t *testing.T) {
	t.Parallel()

	var e blackboard.Entry
	assert.Error(t, json.Unmarshal([]byte(`{"key":"hp","type":"int","value":"ten"}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"key":"hp","type":"matrix","value":1}`), &e))
	assert.Error(t, json.Unmarshal([]byte(`{"key":"range","type":"double","value":"far"}`), &e))
}
