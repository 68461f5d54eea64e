package schema

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelkit/wheelhost/domain/entities"
	"github.com/wheelkit/wheelhost/hostfuncs"
)

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestGenerateSchema_Struct(t *testing.T) {
	schema, err := GenerateSchema(entities.WheelConfig{})
	require.NoError(t, err)

	decoded := decode(t, schema)
	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	assert.Len(t, properties, 4)
	assert.Contains(t, properties, "title")
	assert.Contains(t, properties, "backgroundUrl")
	assert.Contains(t, properties, "items")
	assert.Contains(t, properties, "spinDuration")

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Contains(t, required, "items")
}

func TestGenerateSchema_NestedStruct(t *testing.T) {
	schema, err := GenerateSchema(entities.WheelView{})
	require.NoError(t, err)

	schemaStr := string(schema)
	assert.Contains(t, schemaStr, "sectors")
	assert.Contains(t, schemaStr, "color")
	assert.Contains(t, schemaStr, "enabled")
}

func TestGenerateSchema_String(t *testing.T) {
	schema, err := GenerateSchema("")
	require.NoError(t, err)
	assert.Equal(t, "string", decode(t, schema)["type"])
}

func TestGenerateSchema_Nil(t *testing.T) {
	_, err := GenerateSchema(nil)
	require.Error(t, err)
}

func TestForCommand(t *testing.T) {
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithHandler("greet", func(_ context.Context, req entities.GreetRequest) (string, error) {
			return req.Name, nil
		}),
		hostfuncs.WithByteHandler("raw", func(_ context.Context, payload []byte) ([]byte, error) {
			return payload, nil
		}),
	)
	require.NoError(t, err)

	t.Run("typed command", func(t *testing.T) {
		cs, err := ForCommand(reg, "greet")
		require.NoError(t, err)
		assert.Equal(t, "greet", cs.Name)

		req := decode(t, cs.Request)
		properties, ok := req["properties"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, properties, "name")

		assert.Equal(t, "string", decode(t, cs.Response)["type"])
	})

	t.Run("untyped command", func(t *testing.T) {
		cs, err := ForCommand(reg, "raw")
		require.NoError(t, err)
		assert.Nil(t, cs.Request)
		assert.Nil(t, cs.Response)

		out, err := json.Marshal(cs)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"raw"}`, string(out))
	})

	t.Run("unknown command", func(t *testing.T) {
		_, err := ForCommand(reg, "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})
}
