package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/aron-lang/aron-lsp/internal/aron"
)

type tmLanguage struct {
	Schema    string                 `json:"$schema"`
	Name      string                 `json:"name"`
	ScopeName string                 `json:"scopeName"`
	Patterns  []map[string]string    `json:"patterns"`
	Repo      map[string]interface{} `json:"repository"`
}

type tmPattern struct {
	Name  string `json:"name,omitempty"`
	Match string `json:"match,omitempty"`
	Begin string `json:"begin,omitempty"`
	End   string `json:"end,omitempty"`

	Patterns []tmPattern `json:"patterns,omitempty"`
}

type tmRepositoryEntry struct {
	Patterns []tmPattern `json:"patterns"`
}

var output = flag.String("output", "vscode/syntaxes/aron.tmLanguage.json", "output grammar file path")

func main() {
	flag.Parse()

	b, err := renderGrammar(aron.Keywords())
	if err != nil {
		fatalf("%v", err)
	}

	outPath := *output
	if !filepath.IsAbs(outPath) {
		wd, err := os.Getwd()
		if err != nil {
			fatalf("getwd: %v", err)
		}
		outPath = filepath.Join(wd, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fatalf("mkdir output dir: %v", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		fatalf("write grammar: %v", err)
	}
}

func renderGrammar(keywords []aron.Keyword) ([]byte, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("keyword table is empty")
	}
	control := map[string]struct{}{}
	constants := map[string]struct{}{}
	for _, kw := range keywords {
		if kw.Role == aron.RoleLiteral {
			constants[kw.Word] = struct{}{}
			continue
		}
		control[kw.Word] = struct{}{}
	}

	g := tmLanguage{
		Schema:    "https://raw.githubusercontent.com/martinring/tmlanguage/master/tmlanguage.json",
		Name:      "Aron",
		ScopeName: "source.aron",
		Patterns: []map[string]string{
			{"include": "#comments"},
			{"include": "#keywords"},
			{"include": "#constants"},
			{"include": "#numbers"},
			{"include": "#strings"},
			{"include": "#operators"},
		},
		Repo: map[string]interface{}{
			"comments": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "comment.line.number-sign.aron", Match: aron.CommentMarker + ".*$"},
			}},
			"keywords": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "keyword.control.aron", Match: wordRegex(setToSortedSlice(control))},
			}},
			"constants": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "constant.language.boolean.aron", Match: wordRegex(setToSortedSlice(constants))},
			}},
			"numbers": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "constant.numeric.aron", Match: `\b\d+(?:\.\d+)?\b`},
			}},
			"strings": tmRepositoryEntry{Patterns: []tmPattern{
				{
					Name:  "string.quoted.double.aron",
					Begin: `"`,
					End:   `"`,
					Patterns: []tmPattern{
						{Name: "constant.character.escape.aron", Match: `\\.`},
					},
				},
			}},
			"operators": tmRepositoryEntry{Patterns: []tmPattern{
				{Name: "keyword.operator.aron", Match: `==|!=|<=|>=|[=<>+\-*/()]`},
			}},
		},
	}

	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("marshal grammar: %w", err)
	}
	return []byte(sb.String()), nil
}

// wordRegex matches whole Hebrew words; \b is not reliable for non-ASCII
// letters across TextMate engines.
func wordRegex(words []string) string {
	if len(words) == 0 {
		return `\b\B`
	}
	return `(?<![\p{L}\p{N}_])(?:` + joinRegexAlternation(words) + `)(?![\p{L}\p{N}_])`
}

func joinRegexAlternation(words []string) string {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	return strings.Join(escaped, "|")
}

func setToSortedSlice(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "aron-tmgen: "+format+"\n", args...)
	os.Exit(1)
}
