package format

import (
	"bytes"
	"strings"
)

// printer writes laid out SQL with indentation.
type printer struct {
	output      *bytes.Buffer
	width       int
	depth       int
	atLineStart bool
}

func newPrinter(width int) *printer {
	return &printer{
		output:      &bytes.Buffer{},
		width:       width,
		atLineStart: true,
	}
}

// String returns the printed text without trailing newlines.
func (p *printer) String() string {
	return strings.TrimRight(p.output.String(), "\n")
}

func (p *printer) write(s string) {
	if p.atLineStart && s != "" && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	p.output.WriteString(strings.Repeat(" ", p.depth*p.width))
	p.atLineStart = false
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// list prints items one per line at the current depth, with commas either
// trailing each item or leading the next one.
func (p *printer) list(items []string, commaFirst bool) {
	for i, item := range items {
		switch {
		case i == 0:
			p.write(item)
		case commaFirst:
			p.writeln()
			p.write(", " + item)
		default:
			p.write(",")
			p.writeln()
			p.write(item)
		}
	}
}
