package format

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// clause is a top-level piece of a query: the keywords that open it and
// the text up to the next clause. items is set for list clauses.
type clause struct {
	head  string
	body  string
	items []string
}

// layout breaks deparsed text into lines. Queries get one clause per line;
// CREATE TABLE gets one table element per line. Everything else stays on
// one line.
func (f *formatter) layout(node *pg_query.Node, text string) (string, error) {
	if f.cfg.LineBreak == LineBreakNone {
		return text, nil
	}
	tokens, err := segment.Scan(text)
	if err != nil {
		return "", err
	}

	switch n := node.GetNode().(type) {
	case *pg_query.Node_SelectStmt, *pg_query.Node_InsertStmt, *pg_query.Node_UpdateStmt,
		*pg_query.Node_DeleteStmt, *pg_query.Node_ViewStmt, *pg_query.Node_CreateTableAsStmt:
		return f.clauses(splitClauses(text, tokens)), nil
	case *pg_query.Node_CreateStmt:
		return f.createTable(n.CreateStmt, text, tokens), nil
	}
	return text, nil
}

func (f *formatter) clauses(cs []clause) string {
	p := newPrinter(f.indent)
	for i, c := range cs {
		if i > 0 {
			p.writeln()
		}
		switch {
		case len(c.items) > 0:
			p.write(c.head)
			p.writeln()
			p.indent()
			p.list(c.items, f.cfg.CommaAtBeginning)
			p.dedent()
		case c.head == "":
			p.write(c.body)
		case c.body == "":
			p.write(c.head)
		default:
			p.write(c.head + " " + c.body)
		}
	}
	return p.String()
}

// splitClauses cuts text at clause keywords outside parentheses.
func splitClauses(text string, tokens []segment.Token) []clause {
	var (
		out    []clause
		depth  int
		head   string
		body   int
		commas []int
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Text {
		case "(":
			depth++
			continue
		case ")":
			depth--
			continue
		case ",":
			if depth == 0 {
				commas = append(commas, tok.Start)
			}
			continue
		}
		if depth != 0 || !tok.Keyword {
			continue
		}
		n := clauseHead(tokens, i)
		if n == 0 {
			continue
		}
		if i > 0 {
			out = append(out, newClause(text, head, body, tok.Start, commas))
		}

		words := make([]string, 0, n)
		for _, t := range tokens[i : i+n] {
			words = append(words, strings.ToUpper(t.Text))
		}
		head = strings.Join(words, " ")
		body = tokens[i+n-1].End
		commas = nil
		i += n - 1
	}
	return append(out, newClause(text, head, body, len(text), commas))
}

func newClause(text, head string, start, end int, commas []int) clause {
	c := clause{head: head, body: strings.TrimSpace(text[start:end])}
	if c.body == "" || !isListClause(head) {
		return c
	}
	prev := start
	for _, comma := range commas {
		c.items = append(c.items, strings.TrimSpace(text[prev:comma]))
		prev = comma + 1
	}
	c.items = append(c.items, strings.TrimSpace(text[prev:end]))
	return c
}

func isListClause(head string) bool {
	first, _, _ := strings.Cut(head, " ")
	switch first {
	case "SELECT", "GROUP", "ORDER", "RETURNING", "SET", "VALUES":
		return true
	}
	return false
}

// clauseHead returns the number of tokens forming a clause head at i, or
// zero when tokens[i] does not open a clause.
func clauseHead(tokens []segment.Token, i int) int {
	word := func(k int) string {
		if k < 0 || k >= len(tokens) {
			return ""
		}
		return strings.ToUpper(tokens[k].Text)
	}

	switch word(i) {
	case "SELECT", "UNION", "EXCEPT", "INTERSECT":
		if next := word(i + 1); next == "DISTINCT" || next == "ALL" {
			return 2
		}
		return 1
	case "FROM":
		// DELETE FROM and IS DISTINCT FROM do not open a clause.
		if prev := word(i - 1); prev == "DELETE" || prev == "DISTINCT" {
			return 0
		}
		return 1
	case "WHERE", "HAVING", "LIMIT", "OFFSET", "RETURNING", "WINDOW", "VALUES", "SET", "JOIN":
		return 1
	case "GROUP", "ORDER":
		if word(i+1) == "BY" {
			return 2
		}
	case "LEFT", "RIGHT", "FULL", "INNER", "CROSS", "NATURAL":
		for k := i + 1; k < len(tokens) && k <= i+3; k++ {
			switch word(k) {
			case "JOIN":
				return k - i + 1
			case "LEFT", "RIGHT", "FULL", "INNER", "OUTER":
			default:
				return 0
			}
		}
	}
	return 0
}

// createTable puts each table element on its own line.
func (f *formatter) createTable(n *pg_query.CreateStmt, text string, tokens []segment.Token) string {
	if len(n.GetTableElts()) == 0 || n.GetPartbound() != nil || n.GetOfTypename() != nil {
		return text
	}

	open, closing := -1, -1
	var commas []int
	depth := 0
	for _, tok := range tokens {
		switch tok.Text {
		case "(":
			depth++
			if depth == 1 && open < 0 {
				open = tok.Start
			}
		case ")":
			depth--
			if depth == 0 && open >= 0 {
				closing = tok.Start
			}
		case ",":
			if depth == 1 && open >= 0 {
				commas = append(commas, tok.Start)
			}
		}
		if closing >= 0 {
			break
		}
	}
	if open < 0 || closing < 0 {
		return text
	}

	items := make([]string, 0, len(commas)+1)
	prev := open + 1
	for _, comma := range commas {
		items = append(items, strings.TrimSpace(text[prev:comma]))
		prev = comma + 1
	}
	items = append(items, strings.TrimSpace(text[prev:closing]))

	p := newPrinter(f.indent)
	p.write(strings.TrimRight(text[:open], " ") + " (")
	p.writeln()
	p.indent()
	p.list(items, f.cfg.CommaAtBeginning)
	p.dedent()
	p.writeln()
	p.write(")" + text[closing+1:])
	return p.String()
}
