package contentprovider

import (
	"fmt"
	"html"
	"strings"
)

// AsText joins the plain text of the blocks, used for titles and excerpts.
func AsText(blocks []RichTextBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// AsHTML renders the blocks to HTML. Text content is escaped.
func AsHTML(blocks []RichTextBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		text := html.EscapeString(b.Text)
		switch b.Type {
		case "heading1":
			fmt.Fprintf(&sb, "<h1>%s</h1>", text)
		case "heading2":
			fmt.Fprintf(&sb, "<h2>%s</h2>", text)
		case "heading3":
			fmt.Fprintf(&sb, "<h3>%s</h3>", text)
		case "preformatted":
			fmt.Fprintf(&sb, "<pre>%s</pre>", text)
		default:
			fmt.Fprintf(&sb, "<p>%s</p>", text)
		}
	}
	return sb.String()
}

// FirstParagraph returns the text of the first paragraph block, used for
// listing excerpts.
func FirstParagraph(blocks []RichTextBlock) string {
	for _, b := range blocks {
		if b.Type == "paragraph" && b.Text != "" {
			return b.Text
		}
	}
	return ""
}
