package question

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want Difficulty
	}{
		{"beginner", Easy},
		{"intermediate", Medium},
		{"advanced", Hard},
		{"Easy", Easy},
		{"Hard", Hard},
		{"expert", Difficulty("expert")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDifficulty(tt.in), tt.in)
	}
}

func TestDifficultyValid(t *testing.T) {
	for _, d := range Difficulties {
		assert.True(t, d.Valid())
	}
	assert.False(t, Difficulty("easy").Valid())
	assert.False(t, Difficulty("").Valid())
}

func TestTextAcceptsNonStringJSON(t *testing.T) {
	var tc TestCase
	err := json.Unmarshal([]byte(`{"input": [1, 2, 3], "output": 6}`), &tc)
	require.NoError(t, err)
	assert.Equal(t, Text("[1,2,3]"), tc.Input)
	assert.Equal(t, Text("6"), tc.Output)

	err = json.Unmarshal([]byte(`{"input": "a\nb", "output": null}`), &tc)
	require.NoError(t, err)
	assert.Equal(t, Text("a\nb"), tc.Input)
	assert.Equal(t, Text(""), tc.Output)
}

func TestDocumentNormalizeFillsBuckets(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"arrays": {"Easy": [{"title": "A"}]}, "graphs": null}`), &doc))
	doc.normalize()

	require.Contains(t, doc, "graphs")
	assert.NotNil(t, doc["graphs"].Medium)
	assert.NotNil(t, doc["arrays"].Hard)
	assert.Equal(t, 1, doc["arrays"].Len())

	out, err := json.Marshal(doc["graphs"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Easy": [], "Medium": [], "Hard": []}`, string(out))
}

func TestQuestionKeepsUnmodelledValues(t *testing.T) {
	in := `{"id": 3, "title": "Sum <a>", "description": "d", "example": "free text",
		"test_cases": [{"input": 1, "output": 2}], "tags": ["math"], "source": "import"}`

	var q Question
	require.NoError(t, json.Unmarshal([]byte(in), &q))
	assert.Equal(t, "3", q.ID)
	assert.Equal(t, "Sum <a>", q.Title)
	assert.Equal(t, Example{}, q.Example)
	require.Len(t, q.TestCases, 1)
	assert.Equal(t, Text("2"), q.TestCases[0].Output)

	out, err := marshalUnescaped(q)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &got))
	assert.JSONEq(t, `"free text"`, string(got["example"]))
	assert.JSONEq(t, `"import"`, string(got["source"]))
	assert.JSONEq(t, `["math"]`, string(got["tags"]))
	assert.JSONEq(t, `"3"`, string(got["id"]))
	assert.Contains(t, string(out), `"title":"Sum <a>"`)
	assert.True(t, strings.HasPrefix(string(out), `{"id":`))
}

func TestQuestionRejectsNonObject(t *testing.T) {
	var q Question
	assert.Error(t, json.Unmarshal([]byte(`"Two Sum"`), &q))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &q))
}
