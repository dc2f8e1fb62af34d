package docx

import (
	"regexp"
	"strings"
)

// tokenRe is the placeholder syntax: [[identifier]].
var tokenRe = regexp.MustCompile(`\[\[([A-Za-z0-9_]+)\]\]`)

// paragraphRe matches one <w:p> block. Paragraphs do not nest in OOXML
// (table-cell paragraphs are sibling blocks), so a non-greedy match is
// exact.
var paragraphRe = regexp.MustCompile(`(?s)<w:p(?:>|\s[^>]*>).*?</w:p>`)

// textRe matches one <w:t> element inside a paragraph, capturing its
// attributes and inner text. Self-closing <w:t/> carries no text and is
// left alone.
var textRe = regexp.MustCompile(`(?s)<w:t(\s[^>]*)?>(.*?)</w:t>`)

// rewriteParagraphs substitutes tokens paragraph by paragraph. Tokens may
// straddle run boundaries, so each paragraph's runs are first concatenated
// into one logical string; when that string changes, it is written back
// into the paragraph's first run and the remaining runs are cleared, which
// keeps run formatting structurally intact without ever leaving a token
// half substituted.
func rewriteParagraphs(data []byte, fields map[string]string) []byte {
	return paragraphRe.ReplaceAllFunc(data, func(para []byte) []byte {
		return rewriteParagraph(para, fields)
	})
}

func rewriteParagraph(para []byte, fields map[string]string) []byte {
	matches := textRe.FindAllSubmatchIndex(para, -1)
	if len(matches) == 0 {
		return para
	}

	var logical strings.Builder
	for _, m := range matches {
		logical.WriteString(unescapeText(string(para[m[4]:m[5]])))
	}

	text := logical.String()
	replaced := substitute(text, fields)
	if replaced == text {
		return para
	}

	// Rebuild: full text into the first run, later runs emptied.
	var out []byte
	prev := 0
	for i, m := range matches {
		out = append(out, para[prev:m[0]]...)
		if i == 0 {
			out = append(out, `<w:t xml:space="preserve">`...)
			out = append(out, escapeText(replaced)...)
			out = append(out, `</w:t>`...)
		} else {
			out = append(out, `<w:t></w:t>`...)
		}
		prev = m[1]
	}
	out = append(out, para[prev:]...)
	return out
}

// substitute is a single left-to-right scan over the logical text: every
// token is replaced by its field value, or by the empty string when the
// identifier is unknown. The literal token never survives into output.
func substitute(text string, fields map[string]string) string {
	return tokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		name := tok[2 : len(tok)-2]
		return fields[name]
	})
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	textUnescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
		"&amp;", "&",
	)
)

func escapeText(s string) string   { return textEscaper.Replace(s) }
func unescapeText(s string) string { return textUnescaper.Replace(s) }
