package answer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContacts() knowledge.Contacts {
	return knowledge.Contacts{SupportChannel: "<#support>", Moderators: []string{"<@mod1>", "<@mod2>"}}
}

func TestKeywordTable_Lookup_Categories(t *testing.T) {
	table := DefaultKeywordTable(testContacts())

	tests := []struct {
		question string
		contains string
	}{
		{"How do I VERIFY my account?", "Verification"},
		{"how to join the server", "Verification"},
		{"when is the payout", "Payments"},
		{"any tasks today?", "Tasks"},
		{"where are the guidelines", "Rules"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			got, ok := table.Lookup(tt.question)
			require.True(t, ok)
			assert.Contains(t, got, tt.contains)
		})
	}
}

func TestKeywordTable_Lookup_TieBreakOrder(t *testing.T) {
	table := DefaultKeywordTable(testContacts())

	got, ok := table.Lookup("how do I get paid money for tasks")
	require.True(t, ok)
	assert.Contains(t, got, "Payments")

	got, ok = table.Lookup("I want to verify before I do any task")
	require.True(t, ok)
	assert.Contains(t, got, "Verification")
}

func TestKeywordTable_Lookup_NoMatch(t *testing.T) {
	table := DefaultKeywordTable(testContacts())

	_, ok := table.Lookup("what's the weather like?")
	assert.False(t, ok)
}

func TestKeywordTable_AnswersReferenceContacts(t *testing.T) {
	table := DefaultKeywordTable(testContacts())

	got, _ := table.Lookup("verify")
	assert.Contains(t, got, "<#support>")
	assert.Contains(t, got, "<@mod1>")
}

func TestNewKeywordTable_Validation(t *testing.T) {
	_, err := NewKeywordTable([]KeywordRule{{Category: "x", Keywords: []string{"a"}}})
	assert.Error(t, err)

	_, err = NewKeywordTable([]KeywordRule{{Category: "x", Keywords: []string{"  "}, Answer: "y"}})
	assert.Error(t, err)

	table, err := NewKeywordTable([]KeywordRule{{Category: "x", Keywords: []string{" KARMA "}, Answer: "karma answer"}})
	require.NoError(t, err)
	got, ok := table.Lookup("how much Karma?")
	assert.True(t, ok)
	assert.Equal(t, "karma answer", got)
}

func TestLoadKeywordTable_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := `rules:
  - category: warnings
    keywords: [warning, mute]
    answer: "After 5 warnings each one is a 1-day mute. Ask {moderators}."
  - category: payment
    keywords: [paypal]
    answer: "No PayPal. Ask in {support}."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadKeywordTable(path, testContacts())
	require.NoError(t, err)

	rules := table.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "warnings", rules[0].Category)

	got, ok := table.Lookup("why was I muted? is paypal ok")
	require.True(t, ok)
	assert.Equal(t, "After 5 warnings each one is a 1-day mute. Ask <@mod1> or <@mod2>.", got)
}

func TestLoadKeywordTable_EmptyPathDefault(t *testing.T) {
	table, err := LoadKeywordTable("", testContacts())
	require.NoError(t, err)
	assert.Len(t, table.Rules(), 4)
	assert.Equal(t, "verification", table.Rules()[0].Category)
}

func TestLoadKeywordTable_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadKeywordTable(filepath.Join(dir, "missing.yaml"), testContacts())
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("rules: []\n"), 0o644))
	_, err = LoadKeywordTable(empty, testContacts())
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("rules: [\n"), 0o644))
	_, err = LoadKeywordTable(broken, testContacts())
	assert.Error(t, err)
}

func TestStaticFallback_NamesModerator(t *testing.T) {
	msg := StaticFallback(testContacts())
	assert.Contains(t, msg, "<@mod1>")
	assert.Contains(t, msg, "<#support>")
}
