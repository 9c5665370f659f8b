package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louipr/spark/internal/types"
	"github.com/louipr/spark/internal/workflow"
)

// fakeTool is a configurable in-memory tool for registry tests.
type fakeTool struct {
	name        string
	description string
	valid       bool
	output      map[string]any
	err         error
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return f.description }
func (f *fakeTool) Tags() []string      { return []string{"test"} }
func (f *fakeTool) Validate(map[string]any) bool {
	return f.valid
}
func (f *fakeTool) Execute(context.Context, map[string]any, *workflow.ExecutionContext) (map[string]any, error) {
	return f.output, f.err
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	fs := &fakeTool{name: "filesystem", valid: true}
	r.Register(fs)

	got, err := r.Get("filesystem")
	require.NoError(t, err)
	assert.Same(t, fs, got.(*fakeTool))
}

func TestRegistry_GetMissing(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("ghost")
	require.Error(t, err)
	assert.Equal(t, types.TOOL_NOT_FOUND, types.CodeOf(err))
	assert.Contains(t, err.Error(), "Tool not found: ghost")
}

func TestRegistry_LastWriteWins(t *testing.T) {
	r := NewRegistry()
	first := &fakeTool{name: "shell", description: "first"}
	second := &fakeTool{name: "shell", description: "second"}

	r.Register(first)
	r.Record("shell", time.Millisecond, true)
	r.Register(second)

	got, err := r.Get("shell")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Description())

	// Metrics reset on overwrite.
	m, err := r.Metrics("shell")
	require.NoError(t, err)
	assert.Zero(t, m.ExecutionCount)
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "shell"})
	r.Register(&fakeTool{name: "command"})
	r.Register(&fakeTool{name: "filesystem"})

	assert.Equal(t, []string{"command", "filesystem", "shell"}, r.Names())
	assert.Len(t, r.List(), 3)
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	r.Register(&fakeTool{name: ""})
	assert.Empty(t, r.Names())
}

func TestRegistry_Metrics(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeTool{name: "document"})

	r.Record("document", 10*time.Millisecond, true)
	r.Record("document", 30*time.Millisecond, false)
	r.Record("unknown", time.Millisecond, true) // ignored

	m, err := r.Metrics("document")
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.ExecutionCount)
	assert.EqualValues(t, 1, m.SuccessCount)
	assert.EqualValues(t, 1, m.FailureCount)
	assert.Equal(t, 20*time.Millisecond, m.AverageDuration())
	assert.InDelta(t, 0.5, m.SuccessRate(), 1e-9)
	assert.Equal(t, 30*time.Millisecond, m.LastDuration)

	_, err = r.Metrics("unknown")
	assert.True(t, errors.Is(err, types.NewError(types.TOOL_NOT_FOUND, "")))
}
