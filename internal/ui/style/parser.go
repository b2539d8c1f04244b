// Package style parses the overlay stylesheet and resolves the computed style
// of overlay nodes. It has no rendering dependency.
package style

import (
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Rule is one CSS rule: a simple selector and its declarations.
type Rule struct {
	// Selector is ".class", "#id", optionally followed by ":hover".
	Selector string
	Props    map[string]string
}

// Stylesheet is a list of rules; later rules override earlier ones.
type Stylesheet struct {
	Rules []Rule
}

// Parse reads a stylesheet. Only class and id selectors (with an optional
// :hover) are kept; comma-separated groups become one rule per selector.
// At-rules and their contents are skipped.
func Parse(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInputString(content), false)

	atDepth := 0
	var open []int // indices of the rules of the current ruleset
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			atDepth--
		case css.BeginRulesetGrammar:
			open = open[:0]
			if atDepth > 0 {
				continue
			}
			for _, sel := range strings.Split(selectorText(p.Values()), ",") {
				if !supported(sel) {
					continue
				}
				open = append(open, len(sheet.Rules))
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: map[string]string{}})
			}
		case css.EndRulesetGrammar:
			open = open[:0]
		case css.DeclarationGrammar:
			key := strings.ToLower(strings.TrimSpace(string(data)))
			value := valueText(p.Values())
			for _, i := range open {
				sheet.Rules[i].Props[key] = value
			}
		}
	}
}

// selectorText concatenates selector tokens without whitespace; descendant
// selectors therefore never pass supported.
func selectorText(values []css.Token) string {
	var b strings.Builder
	for _, v := range values {
		if v.TokenType != css.WhitespaceToken {
			b.Write(v.Data)
		}
	}
	return b.String()
}

// valueText joins declaration tokens with single spaces, dropping
// "!important".
func valueText(values []css.Token) string {
	words := make([]string, 0, len(values))
	for i := 0; i < len(values); i++ {
		v := values[i]
		switch {
		case v.TokenType == css.WhitespaceToken:
			continue
		case v.TokenType == css.DelimToken && string(v.Data) == "!":
			i++
			continue
		}
		words = append(words, string(v.Data))
	}
	return strings.Join(words, " ")
}

func supported(sel string) bool {
	base, pseudo, _ := strings.Cut(sel, ":")
	if pseudo != "" && pseudo != "hover" {
		return false
	}
	if len(base) < 2 || (base[0] != '.' && base[0] != '#') {
		return false
	}
	return !strings.ContainsAny(base[1:], ".#[]>+~*")
}
