package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// LoadCSS reads and parses a stylesheet file.
func LoadCSS(path string) (*Stylesheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	sheet, err := ParseCSS(data)
	if err != nil {
		return nil, fmt.Errorf("ui: %s: %w", path, err)
	}
	return sheet, nil
}

// ParseCSS parses a small CSS subset: rules whose selector is a single .class or #id, with
// "property: value;" declarations. Other selectors and at-rules are skipped. Comments are allowed.
func ParseCSS(data []byte) (*Stylesheet, error) {
	p := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	sheet := &Stylesheet{}
	var current *Rule
	for {
		gt, _, name := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF {
				return sheet, nil
			}
			return nil, p.Err()
		case css.BeginRulesetGrammar:
			sel := selector(name, p.Values())
			if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') || strings.ContainsAny(sel[1:], " .#>:,[") {
				current = nil
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: make(map[string]string)})
			current = &sheet.Rules[len(sheet.Rules)-1]
		case css.DeclarationGrammar:
			if current == nil {
				continue
			}
			var v strings.Builder
			for _, t := range p.Values() {
				v.Write(t.Data)
			}
			current.Props[strings.ToLower(string(name))] = strings.TrimSpace(v.String())
		case css.EndRulesetGrammar:
			current = nil
		}
	}
}

// selector joins the selector tokens of a ruleset. head is used when the parser reports no values.
func selector(head []byte, tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	if b.Len() == 0 {
		b.Write(head)
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.String()), "{"))
}
