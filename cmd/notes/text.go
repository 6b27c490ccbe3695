package main

import (
	"strings"

	"golang.org/x/net/html"
)

// stripTags оставляет только текстовые узлы html.
func stripTags(content string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			sb.WriteByte(' ')
		default:
		}
	}
}
