package tree

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/htsfinder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantRoots int
		wantNodes int
	}{
		{
			name:      "array of nodes",
			input:     `[{"htsno":"01","description":"Live animals","indent":0,"children":[{"htsno":"0101","description":"Horses","indent":1,"children":[]}]}]`,
			wantRoots: 1,
			wantNodes: 2,
		},
		{
			name:      "object with children",
			input:     `{"description":"root","children":[{"htsno":"01","description":"Live animals"},{"htsno":"02","description":"Meat"}]}`,
			wantRoots: 2,
			wantNodes: 2,
		},
		{
			name:      "object with empty children",
			input:     `{"children":[]}`,
			wantRoots: 0,
			wantNodes: 0,
		},
		{
			name:      "leading whitespace",
			input:     "\n\t [] ",
			wantRoots: 0,
		},
		{
			name:    "object without children",
			input:   `{"htsno":"01"}`,
			wantErr: true,
		},
		{
			name:    "scalar document",
			input:   `"hello"`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `[{"htsno":`,
			wantErr: true,
		},
		{
			name:    "empty document",
			input:   ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Load(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, core.ErrTreeLoad))
				assert.Nil(t, tr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tr.Roots(), tt.wantRoots)
			assert.Equal(t, tt.wantNodes, tr.Len())
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tree.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"htsno":"01","description":"Live animals"}]`), 0644))

		tr, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, tr.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrTreeLoad)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
