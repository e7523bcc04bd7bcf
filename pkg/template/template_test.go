package template

import (
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotPath_DefaultsToConversation(t *testing.T) {
	path, err := ParseSlotPath("greeting")
	require.NoError(t, err)
	assert.Equal(t, "greeting", path.Name)
	assert.Equal(t, slot.ScopeConversation, path.Destination)
}

func TestParseSlotPath_RecognizesDestinations(t *testing.T) {
	cases := map[string]slot.Scope{
		"session.foo":      slot.ScopeSession,
		"module.foo":       slot.ScopeModule,
		"global.foo":       slot.ScopeGlobal,
		"conversation.foo": slot.ScopeConversation,
	}
	for raw, want := range cases {
		path, err := ParseSlotPath(raw)
		require.NoError(t, err)
		assert.Equal(t, want, path.Destination)
		assert.Equal(t, "foo", path.Name)
	}
}

func TestSlotPath_GlobalFlagOverridesDestination(t *testing.T) {
	yes := true
	path := SlotPath{Name: "foo", Destination: slot.ScopeSession, Global: &yes}
	assert.Equal(t, slot.ScopeGlobal, path.EffectiveDestination())
	assert.Equal(t, "global.foo", path.String())
}

func TestTemplate_InjectionSlots_DedupesInOrder(t *testing.T) {
	tpl := Template("Hi {{name}}, your {{session.ticket}} is ready. {{name}} again.")
	paths, err := tpl.InjectionSlots()
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "conversation.name", paths[0].String())
	assert.Equal(t, "session.ticket", paths[1].String())
}

func TestTemplate_Inject_Success(t *testing.T) {
	tpl := Template("Hi {{name}}, ticket {{session.ticket}}")
	out, err := tpl.Inject(map[string]string{
		"conversation.name": "Ada",
		"session.ticket":    "42",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada, ticket 42", out)
}

func TestTemplate_Inject_MissingSlotFails(t *testing.T) {
	tpl := Template("Hi {{name}}")
	_, err := tpl.Inject(map[string]string{})
	require.Error(t, err)
	var notFound *SlotNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "conversation.name", notFound.Path.String())
}

func TestEncode_Scalars(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"hello", "hello"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		got, err := Encode(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestEncode_StructuredIsFlowYAML(t *testing.T) {
	got, err := Encode(map[string]any{"a": 1, "b": []any{1, 2, 3}})
	require.NoError(t, err)
	assert.NotContains(t, got, "\n")
	assert.Contains(t, got, "a: 1")
	assert.Contains(t, got, "b: [1, 2, 3]")
}

func TestDecode_RoundTripsScalars(t *testing.T) {
	v, err := Decode("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = Decode("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Decode("null")
	require.NoError(t, err)
	assert.Nil(t, v)
}
