package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectBare(t *testing.T) {
	text := `{"classifications": []}`

	extracted, err := ExtractJSONObject(text)

	require.NoError(t, err)
	assert.Equal(t, text, extracted)
}

func TestExtractJSONObjectSurroundedByProse(t *testing.T) {
	text := "Sure! Here are the classifications you asked for:\n\n" +
		`{"classifications": [{"email_index": 0}]}` +
		"\n\nLet me know if you need anything else."

	extracted, err := ExtractJSONObject(text)

	require.NoError(t, err)
	assert.Equal(t, `{"classifications": [{"email_index": 0}]}`, extracted)
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	text := `prefix {"outer": {"inner": {"deep": 1}}, "list": [{"x": 2}]} suffix`

	extracted, err := ExtractJSONObject(text)

	require.NoError(t, err)
	assert.Equal(t, `{"outer": {"inner": {"deep": 1}}, "list": [{"x": 2}]}`, extracted)
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	text := `note {"summary": "use {braces} carefully", "action": "escape \" quotes"} done`

	extracted, err := ExtractJSONObject(text)

	require.NoError(t, err)
	assert.Equal(t, `{"summary": "use {braces} carefully", "action": "escape \" quotes"}`, extracted)
}

func TestExtractJSONObjectAbsent(t *testing.T) {
	_, err := ExtractJSONObject("no json here at all")

	assert.ErrorIs(t, err, ErrNoJSONObject)
}

func TestExtractJSONObjectUnterminated(t *testing.T) {
	_, err := ExtractJSONObject(`{"classifications": [`)

	assert.ErrorIs(t, err, ErrNoJSONObject)
}
