package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// block-level elements break rendered text into separate lines, the same
// way innerText does in a browser
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"div": true, "dl": true, "dt": true, "dd": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "td": true, "th": true, "ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// Lines approximates the browser's innerText for a node: text content split
// at block-level element boundaries and <br>, trimmed, with empty lines and
// non-printable characters dropped.
func Lines(node *html.Node) []string {
	var buffer bytes.Buffer
	linesRecursive(node, &buffer)

	var lines []string
	for _, raw := range strings.Split(buffer.String(), "\n") {
		line := CleanText(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func linesRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	switch node.Type {
	case html.TextNode:
		buffer.WriteString(node.Data)
		return
	case html.ElementNode:
		if skipTags[node.Data] {
			return
		}
		if node.Data == "br" {
			buffer.WriteString("\n")
			return
		}
	}

	block := node.Type == html.ElementNode && blockTags[node.Data]
	if block {
		buffer.WriteString("\n")
	}
	child := node.FirstChild
	for child != nil {
		linesRecursive(child, buffer)
		child = child.NextSibling
	}
	if block {
		buffer.WriteString("\n")
	}
}

var innerWhitespace = []string{"\t", "\r", " "}

// CleanText trims a rendered-text fragment: non-printable runes removed,
// runs of whitespace collapsed to single spaces.
func CleanText(s string) string {
	for _, ws := range innerWhitespace {
		s = strings.ReplaceAll(s, ws, " ")
	}
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return strings.Join(strings.Fields(newStr.String()), " ")
}
