package identity

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	authorAttr = "data-author"
	colorAttr  = "data-color"
	closeDiv   = "</div>"
)

// Authored результат разбора обертки авторства.
type Authored struct {
	Author string
	Color  string
	// HTML содержимое без обертки.
	HTML string
}

// Wrap оборачивает html в div с атрибутами автора.
func Wrap(content string, id Identity) string {
	return fmt.Sprintf(`<div %s="%s" %s="%s">%s</div>`,
		authorAttr, html.EscapeString(id.Name),
		colorAttr, html.EscapeString(id.Color),
		content,
	)
}

// Parse извлекает автора из первого элемента html. Внутреннее содержимое возвращается
// байт в байт как в исходной строке. Если первый элемент не обертка, содержимое возвращается как есть.
//
// Закрывающий тег обертки ищется с конца строки: Wrap всегда завершает содержимое своим
// </div>, поэтому несбалансированные div внутри не обрезают текст. Если после последнего
// </div> есть что-то кроме пробелов, граница определяется подсчетом вложенности.
func Parse(content string) Authored {
	plain := Authored{HTML: content}

	z := nethtml.NewTokenizer(strings.NewReader(content))
	offset := 0
	var author, color string
	var innerStart int
	found := false

	for !found {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			return plain
		}
		offset += len(z.Raw())

		switch tt {
		case nethtml.TextToken:
			if len(bytes.TrimSpace(z.Raw())) == 0 {
				continue
			}
			return plain
		case nethtml.StartTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Div {
				return plain
			}
			var hasAuthor bool
			for _, a := range tok.Attr {
				switch a.Key {
				case authorAttr:
					author, hasAuthor = a.Val, true
				case colorAttr:
					color = a.Val
				}
			}
			if !hasAuthor {
				return plain
			}
			found, innerStart = true, offset
		case nethtml.CommentToken, nethtml.DoctypeToken:
			continue
		default:
			return plain
		}
	}

	rest := content[innerStart:]
	if end := strings.LastIndex(rest, closeDiv); end >= 0 && strings.TrimSpace(rest[end+len(closeDiv):]) == "" {
		return Authored{Author: author, Color: color, HTML: rest[:end]}
	}
	return Authored{Author: author, Color: color, HTML: balancedInner(z, content, innerStart)}
}

// balancedInner ищет закрывающий тег обертки по вложенности div. Для незакрытой обертки
// возвращает все до конца строки.
func balancedInner(z *nethtml.Tokenizer, content string, innerStart int) string {
	depth, offset := 1, innerStart
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			return content[innerStart:]
		}
		start := offset
		offset += len(z.Raw())

		name, _ := z.TagName()
		if string(name) != "div" {
			continue
		}
		switch tt {
		case nethtml.StartTagToken:
			depth++
		case nethtml.EndTagToken:
			depth--
			if depth == 0 {
				return content[innerStart:start]
			}
		default:
		}
	}
}
