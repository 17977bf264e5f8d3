// Package aron holds the editor-facing language logic for Aron: the keyword
// table, the RTL formatter and a tokenizer for diagnostics and highlighting.
package aron

// Role groups keywords by how editor features treat them.
type Role int

const (
	RoleStatement Role = iota
	RoleBlockOpener
	RoleBlockCloser
	RoleLiteral
)

// Keyword is one entry of the static keyword table.
type Keyword struct {
	Word          string
	Detail        string
	Documentation string
	Hover         string
	Role          Role
}

const (
	KeywordPrint  = "הדפס"
	KeywordAssign = "קבע"
	KeywordIf     = "אם"
	KeywordElse   = "אחרת"
	KeywordEnd    = "סוף"
	KeywordTrue   = "אמת"
	KeywordFalse  = "שקר"
)

var keywordTable = []Keyword{
	{
		Word:          KeywordPrint,
		Detail:        "Print a value",
		Documentation: "Prints the value of an expression or a string.",
		Hover:         "Print statement\n\nSyntax: `הדפס <expression>`\n\nPrints the value of the expression to the console.",
		Role:          RoleStatement,
	},
	{
		Word:          KeywordAssign,
		Detail:        "Declare variable",
		Documentation: "Declares a new variable or assigns a value to an existing one.",
		Hover:         "Variable declaration\n\nSyntax: `קבע <name> = <expression>`\n\nCreates a new variable or assigns a value to an existing one.",
		Role:          RoleStatement,
	},
	{
		Word:          KeywordIf,
		Detail:        "If statement",
		Documentation: "Begins a conditional block that executes if the condition is true.",
		Hover:         "If statement\n\nSyntax: `אם <condition>\n    <statements>\nסוף`\n\nExecutes statements if the condition is true.",
		Role:          RoleBlockOpener,
	},
	{
		Word:          KeywordElse,
		Detail:        "Else statement",
		Documentation: "Specifies a block to execute when the if condition is false.",
		Hover:         "Else statement\n\nSyntax: `אם <condition>\n    <statements>\nאחרת\n    <statements>\nסוף`\n\nExecutes statements if the condition is false.",
		Role:          RoleBlockCloser,
	},
	{
		Word:          KeywordEnd,
		Detail:        "End block",
		Documentation: "Marks the end of a control structure block like if-else.",
		Hover:         "End block\n\nMarks the end of a control structure block like if-else.",
		Role:          RoleBlockCloser,
	},
	{
		Word:          KeywordTrue,
		Detail:        "Boolean true",
		Documentation: "Boolean true value.",
		Hover:         "Boolean true\n\nBoolean literal representing the true value.",
		Role:          RoleLiteral,
	},
	{
		Word:          KeywordFalse,
		Detail:        "Boolean false",
		Documentation: "Boolean false value.",
		Hover:         "Boolean false\n\nBoolean literal representing the false value.",
		Role:          RoleLiteral,
	},
}

var keywordIndex = func() map[string]Keyword {
	m := make(map[string]Keyword, len(keywordTable))
	for _, kw := range keywordTable {
		m[kw.Word] = kw
	}
	return m
}()

// Keywords returns every keyword in declaration order. The returned slice is
// a copy and may be modified by the caller.
func Keywords() []Keyword {
	out := make([]Keyword, len(keywordTable))
	copy(out, keywordTable)
	return out
}

// WordsWithRole returns the surface forms of the keywords having any of the
// given roles, in declaration order.
func WordsWithRole(roles ...Role) []string {
	var out []string
	for _, kw := range keywordTable {
		for _, r := range roles {
			if kw.Role == r {
				out = append(out, kw.Word)
				break
			}
		}
	}
	return out
}

// Lookup resolves an exact surface form. No normalization is applied.
func Lookup(word string) (Keyword, bool) {
	kw, ok := keywordIndex[word]
	return kw, ok
}

func IsKeyword(word string) bool {
	_, ok := keywordIndex[word]
	return ok
}
