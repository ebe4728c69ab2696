// File: internal/action/action_test.go
package action_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claudiorodrigues01/bycrr-ai/internal/action"
)

func TestDecode_ValidDecision(t *testing.T) {
	raw := `{"thought":"vou listar","action":"execute_command","parameters":{"command":"dir"}}`

	d, err := action.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, action.KindExecuteCommand, d.Kind)
	assert.Equal(t, "vou listar", d.Thought)

	cmd, ok := d.Params.String("command")
	require.True(t, ok)
	assert.Equal(t, "dir", cmd)
}

func TestDecode_ToleratesFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}\n```"},
		{"bare fence", "```\n{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}\n```"},
		{"leading prose", "Claro, aqui está:\n{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}"},
		{"trailing prose", "{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}\nEspero que ajude."},
		{"prose on both sides", "Segue a ação:\n{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}\nQualquer dúvida, avise."},
		{"fence then trailing prose", "```json\n{\"action\":\"answer\",\"parameters\":{\"answer\":\"oi\"}}\n```\nEspero que ajude."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := action.Decode(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, action.KindAnswer, d.Kind)
			assert.Equal(t, "oi", d.Params.StringOr("answer", ""))
		})
	}
}

func TestExtractObject_StopsAtBalancedBrace(t *testing.T) {
	object := `{"action":"answer","parameters":{"answer":"use {chaves} e \"aspas\" à vontade"}}`

	// Suffixed replies must yield exactly the object, never the prose after it.
	assert.Equal(t, object, action.ExtractObject(object+"\nEspero que ajude."))
	assert.Equal(t, object, action.ExtractObject("Claro:\n"+object+"\nAté mais."))
	assert.Equal(t, "", action.ExtractObject(`{"action":"answer"`))
}

func TestDecode_TrailingProseStillExecutesAction(t *testing.T) {
	raw := `{"thought":"vou responder","action":"list_dir","parameters":{"path":"/tmp"}}` +
		"\nCaso precise de mais algo, me avise."

	d, err := action.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, action.KindListDir, d.Kind)
	assert.Equal(t, "/tmp", d.Params.StringOr("path", ""))
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, raw := range []string{"", "apenas texto livre", "[1,2,3]", "{broken"} {
		_, err := action.Decode(raw)
		assert.ErrorIs(t, err, action.ErrNotObject, "raw=%q", raw)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := action.Decode(`{"action":"launch_rocket","parameters":{}}`)

	var unknown *action.UnknownKindError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "launch_rocket", unknown.Kind)
}

func TestDecode_MissingParamsDefaultsToEmpty(t *testing.T) {
	d, err := action.Decode(`{"action":"list_processes"}`)
	require.NoError(t, err)
	require.NotNil(t, d.Params)
	assert.Equal(t, 20, d.Params.Int("top_n", 20))
}

func TestKind_Sensitive(t *testing.T) {
	sensitive := []action.Kind{
		action.KindDeleteFile, action.KindDeleteDir, action.KindKillProcess,
		action.KindStopService, action.KindWriteRegistry, action.KindSetEnv,
	}
	for _, k := range sensitive {
		assert.True(t, k.Sensitive(), "kind %s", k)
	}
	for _, k := range []action.Kind{action.KindReadFile, action.KindListDir, action.KindAnswer} {
		assert.False(t, k.Sensitive(), "kind %s", k)
	}
}

func TestParams_NumericTolerance(t *testing.T) {
	p := action.Params{
		"float":  float64(7),
		"int":    3,
		"string": "11",
		"junk":   struct{}{},
	}
	assert.Equal(t, 7, p.Int("float", 0))
	assert.Equal(t, 3, p.Int("int", 0))
	assert.Equal(t, 11, p.Int("string", 0))
	assert.Equal(t, 9, p.Int("junk", 9))
	assert.Equal(t, 9, p.Int("missing", 9))
}

func TestParams_Bool(t *testing.T) {
	p := action.Params{"b": true, "s": "true", "n": float64(1), "z": float64(0)}
	assert.True(t, p.Bool("b"))
	assert.True(t, p.Bool("s"))
	assert.True(t, p.Bool("n"))
	assert.False(t, p.Bool("z"))
	assert.False(t, p.Bool("missing"))
	assert.True(t, p.BoolOr("missing", true))
}

func TestDecision_EncodeRoundTrip(t *testing.T) {
	d := &action.Decision{
		Thought: "responder",
		Kind:    action.KindAnswer,
		Params:  action.Params{"answer": "feito"},
	}

	back, err := action.Decode(d.Encode())
	require.NoError(t, err)
	assert.Equal(t, d.Kind, back.Kind)
	assert.Equal(t, "feito", back.Params.StringOr("answer", ""))
}
