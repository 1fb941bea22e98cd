package repl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseDotCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs []string
	}{
		{
			name:     "bare command",
			input:    ".tables",
			wantName: ".tables",
			wantArgs: []string{},
		},
		{
			name:     "command with one argument",
			input:    ".columns surveys",
			wantName: ".columns",
			wantArgs: []string{"surveys"},
		},
		{
			name:     "command with two arguments",
			input:    ".import surveys.csv surveys",
			wantName: ".import",
			wantArgs: []string{"surveys.csv", "surveys"},
		},
		{
			name:     "extra whitespace",
			input:    "  .count   surveys  ",
			wantName: ".count",
			wantArgs: []string{"surveys"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := parseDotCommand(tt.input)
			assert.Equal(t, tt.wantName, name)
			assert.ElementsMatch(t, tt.wantArgs, args)
		})
	}
}

func Test_cleanError(t *testing.T) {
	err := errors.New("failed to detect query type: failed to prepare statement: near \"SELEC\": syntax error")
	assert.Equal(t, `near "SELEC": syntax error`, cleanError(err))

	err = errors.New("no transaction is open")
	assert.Equal(t, "no transaction is open", cleanError(err))
}

func Test_renderCell(t *testing.T) {
	assert.Equal(t, "NULL", renderCell(nil))
	assert.Equal(t, "blob", renderCell([]byte("blob")))
	assert.Equal(t, int64(42), renderCell(int64(42)))
	assert.Equal(t, "text", renderCell("text"))
}

func Test_cmdHelpCompleter(t *testing.T) {
	t.Run("SQLPrefix", func(t *testing.T) {
		results := cmdHelpCompleter("sel")
		assert.Contains(t, results, "SELECT ")
	})

	t.Run("DotCommands", func(t *testing.T) {
		results := cmdHelpCompleter(".ta")
		assert.Equal(t, []string{".tables"}, results)
	})

	t.Run("NoMatch", func(t *testing.T) {
		results := cmdHelpCompleter("xyz")
		assert.Empty(t, results)
	})
}
