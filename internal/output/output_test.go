package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRepoStatus(t *testing.T) {
	tests := []struct {
		ahead, modified int
		want            string
	}{
		{0, 0, "clean"},
		{2, 0, "2 ahead"},
		{0, 3, "3 modified"},
		{2, 3, "2 ahead, 3 modified"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRepoStatus(tt.ahead, tt.modified))
		})
	}
}

func TestTableRender(t *testing.T) {
	tbl := NewTable("Name", "Branch")
	tbl.AddRow("feat", "dev/feat")
	tbl.AddRow("fix", "dev/fix")

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "BRANCH")
	assert.Contains(t, out, "feat")
	assert.Contains(t, out, "dev/fix")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, Mutation{OK: true, Message: "done"}))

	var got Mutation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.OK)
	assert.Equal(t, "done", got.Message)
}
