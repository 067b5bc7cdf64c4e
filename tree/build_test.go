package tree

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	records := []Record{
		{Code: "0101", Description: "Live horses", Indent: 0},
		{Code: "0101.21", Description: "Purebred", Indent: 1},
		{Code: "", Description: "Other:", Indent: 1},
		{Code: "0101.29.00", Description: "Other", Indent: 2},
		{Code: "0101.30", Description: "Asses", Indent: 1},
		{Code: "0102", Description: "Live bovine", Indent: 0},
	}

	roots := Build(records)
	require.Len(t, roots, 2)

	horses := roots[0]
	assert.Equal(t, "0101", horses.Code)
	require.Len(t, horses.Children, 3)
	assert.Equal(t, []string{"0101.21", "", "0101.30"}, codesOf(horses.Children))
	require.Len(t, horses.Children[1].Children, 1)
	assert.Equal(t, "0101.29.00", horses.Children[1].Children[0].Code)

	assert.Equal(t, "0102", roots[1].Code)
	assert.NotNil(t, roots[1].Children)
	assert.Empty(t, roots[1].Children)

	t.Run("flatten preserves record order", func(t *testing.T) {
		var got []string
		for n := range Flatten(roots) {
			got = append(got, n.Description)
		}
		want := make([]string, len(records))
		for i, r := range records {
			want[i] = r.Description
		}
		assert.Equal(t, want, got)
	})

	t.Run("indent jump attaches to nearest shallower record", func(t *testing.T) {
		roots := Build([]Record{
			{Code: "01", Indent: 0},
			{Code: "01.x", Indent: 3},
			{Code: "01.y", Indent: 1},
		})
		require.Len(t, roots, 1)
		assert.Equal(t, []string{"01.x", "01.y"}, codesOf(roots[0].Children))
	})

	t.Run("no records", func(t *testing.T) {
		assert.Empty(t, Build(nil))
	})
}

func TestDecodeRecords(t *testing.T) {
	input := `[
		{"htsno":"0101","description":"Live horses","indent":"0","superior":null},
		{"htsno":"","description":"Other:","indent":"1"},
		{"htsno":"0101.29","description":"Other","indent":2}
	]`

	records, err := DecodeRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 0, int(records[0].Indent))
	assert.Equal(t, 1, int(records[1].Indent))
	assert.Equal(t, 2, int(records[2].Indent))

	t.Run("built tree round-trips through Load", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(Build(records)))

		tr, err := Load(&buf)
		require.NoError(t, err)
		assert.Equal(t, 3, tr.Len())
		path, ok := tr.PathTo("0101.29")
		require.True(t, ok)
		assert.Equal(t, []string{"0101", "", "0101.29"}, codesOf(path))
		assert.True(t, slices.ContainsFunc(tr.Entries(), func(e Entry) bool { return e.Node.Code == "0101.29" }))
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := DecodeRecords(strings.NewReader(`{"htsno":`))
		assert.Error(t, err)
	})
}
