package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name         string
		dialect      string
		wantContains string
		wantErr      bool
	}{
		{name: "mysql", dialect: "mysql", wantContains: "ON UPDATE CURRENT_TIMESTAMP"},
		{name: "sqlite", dialect: "sqlite", wantContains: "namespace TEXT NOT NULL"},
		{name: "unknown dialect", dialect: "postgres", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Statements(tt.dialect)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Contains(t, got[0], "CREATE TABLE IF NOT EXISTS cache_documents")
			assert.Contains(t, got[0], tt.wantContains)
		})
	}
}
