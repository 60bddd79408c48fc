package answer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/knowledge"
	"gopkg.in/yaml.v3"
)

var errNoKeywordMatch = errors.New("no keyword rule matched")

// KeywordRule maps a set of keywords to a pre-vetted canned answer.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// KeywordTable is an ordered list of rules; earlier rules win ties.
// It is immutable after construction.
type KeywordTable struct {
	rules []KeywordRule
}

type keywordFile struct {
	Rules []KeywordRule `yaml:"rules"`
}

// DefaultKeywordTable returns the built-in rules in evaluation order:
// verification, payment, task, rules.
func DefaultKeywordTable(c knowledge.Contacts) KeywordTable {
	table, _ := NewKeywordTable([]KeywordRule{
		{
			Category: "verification",
			Keywords: []string{"verify", "verification", "how to join"},
			Answer: "✅ **Verification**\n" +
				"1. Post your Reddit profile link (`https://www.reddit.com/user/yourusername`) in `#✅-verify-here`.\n" +
				"2. You need at least 50 total karma and an unsuspended account.\n" +
				"3. Once a mod approves with ✅ you get the Verified role and full server access.\n" +
				"Questions? Ask in " + c.SupportChannel + " or DM " + c.PrimaryModerator() + ".",
		},
		{
			Category: "payment",
			Keywords: []string{"payment", "payout", "money"},
			Answer: "💵 **Payments**\n" +
				"• Methods: UPI (India) or USDT (BEP20 only). No PayPal.\n" +
				"• Crypto minimum is $2; UPI has no minimum.\n" +
				"• Payouts go out every Monday (IST). DM your records to " + c.PrimaryModerator() + " on Saturday or Sunday.\n" +
				"For disputes, contact " + c.ModeratorList() + ".",
		},
		{
			Category: "task",
			Keywords: []string{"task", "tasks", "work"},
			Answer: "📝 **Tasks**\n" +
				"• Post task: $0.30–$0.50, 1 per day per account.\n" +
				"• Comment task: $0.20, 3 per day per account.\n" +
				"• Voting/report: $0.05–$0.10, no fixed limit.\n" +
				"Tasks are first-come, first-serve. Copy content exactly and send proof permalinks to " + c.PrimaryModerator() + ".",
		},
		{
			Category: "rules",
			Keywords: []string{"rules", "guidelines"},
			Answer: "📜 **Rules**\n" +
				"The full rules live in the rules channel. Key points: copy task content exactly, use Reddit in browser mode, " +
				"and after 5 warnings every new warning is a 1-day mute.\n" +
				"Ask in " + c.SupportChannel + " if anything is unclear.",
		},
	})
	return table
}

// NewKeywordTable validates rules and returns a table that evaluates them in
// the given order. Keywords are matched lower-cased.
func NewKeywordTable(rules []KeywordRule) (KeywordTable, error) {
	out := make([]KeywordRule, 0, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Answer) == "" {
			return KeywordTable{}, fmt.Errorf("keyword rule %d (%s): answer is required", i, r.Category)
		}
		var keywords []string
		for _, k := range r.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return KeywordTable{}, fmt.Errorf("keyword rule %d (%s): at least one keyword is required", i, r.Category)
		}
		out = append(out, KeywordRule{Category: r.Category, Keywords: keywords, Answer: strings.TrimSpace(r.Answer)})
	}
	return KeywordTable{rules: out}, nil
}

// LoadKeywordTable reads rules from a YAML file, or returns the default table
// when path is empty. Answers may use {support}, {moderator} and
// {moderators} placeholders.
func LoadKeywordTable(path string, c knowledge.Contacts) (KeywordTable, error) {
	if path == "" {
		return DefaultKeywordTable(c), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordTable{}, fmt.Errorf("reading keywords file: %w", err)
	}
	var file keywordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return KeywordTable{}, fmt.Errorf("parsing keywords file: %w", err)
	}
	if len(file.Rules) == 0 {
		return KeywordTable{}, fmt.Errorf("keywords file %s has no rules", path)
	}

	replacer := strings.NewReplacer(
		"{support}", c.SupportChannel,
		"{moderator}", c.PrimaryModerator(),
		"{moderators}", c.ModeratorList(),
	)
	for i := range file.Rules {
		file.Rules[i].Answer = replacer.Replace(file.Rules[i].Answer)
	}
	return NewKeywordTable(file.Rules)
}

// Lookup returns the answer of the first rule with a keyword contained in
// the lower-cased question.
func (t KeywordTable) Lookup(question string) (string, bool) {
	lower := strings.ToLower(question)
	for _, r := range t.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Answer, true
			}
		}
	}
	return "", false
}

// Rules returns a copy of the rules in evaluation order.
func (t KeywordTable) Rules() []KeywordRule {
	out := make([]KeywordRule, len(t.rules))
	for i, r := range t.rules {
		out[i] = KeywordRule{
			Category: r.Category,
			Keywords: append([]string(nil), r.Keywords...),
			Answer:   r.Answer,
		}
	}
	return out
}

// StaticFallback is the last-resort reply when every other stage failed.
func StaticFallback(c knowledge.Contacts) string {
	return "❌ I'm having trouble answering that right now. Please ask in " +
		c.SupportChannel + " or DM " + c.PrimaryModerator() + " for help!"
}
