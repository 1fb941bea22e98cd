package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_parseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    OutputFormat
		wantErr bool
	}{
		{
			name:  "table",
			value: "table",
			want:  OutputTable,
		},
		{
			name:  "csv",
			value: "csv",
			want:  OutputCSV,
		},
		{
			name:  "json",
			value: "json",
			want:  OutputJSON,
		},
		{
			name:    "unknown format",
			value:   "yaml",
			wantErr: true,
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
		},
		{
			name:    "case sensitive",
			value:   "Table",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOutputFormat(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
