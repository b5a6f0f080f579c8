package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{ A int }

type sampleConf struct {
	A int `json:"a"`
}

func newSample(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]("")
	require.NoError(t, reg.Register("s", newSample))

	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, inst.A)
}

func TestRegistry_Fallback(t *testing.T) {
	reg := NewRegistry[*sample]("s")
	require.NoError(t, reg.Register("s", newSample))

	inst, err := reg.Create(ModuleConfig{Conf: map[string]any{"a": "7"}})
	require.NoError(t, err)
	assert.Equal(t, 7, inst.A, "string values are weakly decoded")
	assert.True(t, reg.Has(""))
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]("")
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }), "duplicate")
	assert.Error(t, reg.Register("z", nil), "nil factory")

	_, err := reg.Create(ModuleConfig{Type: "y"})
	assert.True(t, errors.Is(err, ErrUnknownType))
	_, err = reg.Create(ModuleConfig{})
	assert.True(t, errors.Is(err, ErrUnknownType), "no fallback configured")
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry[int]("")
	for _, n := range []string{"b", "a", "c"} {
		require.NoError(t, reg.Register(n, func(map[string]any) (int, error) { return 0, nil }))
	}
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
}

func TestDecode_UnknownKey(t *testing.T) {
	var c sampleConf
	err := Decode(map[string]any{"a": 1, "typo": 2}, &c)
	assert.Error(t, err)
}
