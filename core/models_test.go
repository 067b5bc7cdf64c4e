package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "live horses",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}

	t.Run("different content produces different IDs", func(t *testing.T) {
		assert.NotEqual(t, IDFromContent("horse"), IDFromContent("horses"))
	})
}

func TestTreeNodeJSON(t *testing.T) {
	t.Run("reads htsno", func(t *testing.T) {
		var n TreeNode
		err := json.Unmarshal([]byte(`{"htsno":"0101","description":"Horses","indent":1,"children":[]}`), &n)
		require.NoError(t, err)
		assert.Equal(t, "0101", n.Code)
		assert.Equal(t, "Horses", n.Description)
		assert.Equal(t, 1, n.Indent)
		assert.True(t, n.HasCode())
		assert.False(t, n.HasChildren())
	})

	t.Run("reads code alias", func(t *testing.T) {
		var n TreeNode
		err := json.Unmarshal([]byte(`{"code":"01","description":"Live animals"}`), &n)
		require.NoError(t, err)
		assert.Equal(t, "01", n.Code)
	})

	t.Run("indent as string", func(t *testing.T) {
		var n TreeNode
		err := json.Unmarshal([]byte(`{"htsno":"","description":"Other:","indent":"3"}`), &n)
		require.NoError(t, err)
		assert.Equal(t, 3, n.Indent)
		assert.False(t, n.HasCode())
	})

	t.Run("invalid indent decodes as zero", func(t *testing.T) {
		var n TreeNode
		err := json.Unmarshal([]byte(`{"description":"x","indent":"abc"}`), &n)
		require.NoError(t, err)
		assert.Equal(t, 0, n.Indent)
	})

	t.Run("writes htsno and empty children", func(t *testing.T) {
		data, err := json.Marshal(&TreeNode{Code: "0101", Description: "Horses"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"htsno":"0101","description":"Horses","indent":0,"children":[]}`, string(data))
	})

	t.Run("nested children survive", func(t *testing.T) {
		in := []*TreeNode{{
			Code:        "01",
			Description: "Live animals",
			Children:    []*TreeNode{{Code: "0101", Description: "Horses", Indent: 1}},
		}}
		data, err := json.Marshal(in)
		require.NoError(t, err)

		var out []*TreeNode
		require.NoError(t, json.Unmarshal(data, &out))
		require.Len(t, out, 1)
		require.Len(t, out[0].Children, 1)
		assert.Equal(t, "0101", out[0].Children[0].Code)
	})
}

func TestNewKeywordSet(t *testing.T) {
	ks := NewKeywordSet([]string{" Horse ", "horse", "", "Racing  HORSE"}, []string{"Live"})

	assert.Equal(t, []string{"horse", "racing horse"}, ks.ObjectKeywords)
	assert.Equal(t, []string{"live"}, ks.ContextKeywords)
	assert.False(t, ks.IsEmpty())
}

func TestKeywordSetTokens(t *testing.T) {
	t.Run("splits and deduplicates", func(t *testing.T) {
		ks := NewKeywordSet([]string{"racing horse", "horse"}, []string{"live animal"})
		assert.Equal(t, []string{"racing", "horse", "live", "animal"}, ks.Tokens())
	})

	t.Run("empty set", func(t *testing.T) {
		ks := NewKeywordSet(nil, nil)
		assert.True(t, ks.IsEmpty())
		assert.Empty(t, ks.Tokens())
	})
}

func TestQueryID(t *testing.T) {
	assert.Equal(t, "live horses", NormalizeQuery("  Live\tHORSES \n"))
	assert.Equal(t, QueryID("live horses"), QueryID("Live  Horses"))
	assert.NotEqual(t, QueryID("live horses"), QueryID("live asses"))
	assert.Equal(t, "", NormalizeQuery("   "))
}
