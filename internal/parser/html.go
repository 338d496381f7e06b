package parser

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser turns provider HTML bodies into display text
type HTMLParser struct {
	tagRegex        *regexp.Regexp
	whitespaceRegex *regexp.Regexp
	newlineRegex    *regexp.Regexp
	invisibleRegex  *regexp.Regexp
}

// NewHTMLParser creates a new HTML parser
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		// Anything between angle brackets; not a real HTML parser
		tagRegex:        regexp.MustCompile(`<[^<]+?>`),
		whitespaceRegex: regexp.MustCompile(`[^\S\n]+`),
		newlineRegex:    regexp.MustCompile(`\n{3,}`),
		// Remove invisible Unicode characters (zero-width spaces, etc.)
		invisibleRegex: regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}\x{034F}\x{061C}\x{115F}\x{1160}\x{17B4}\x{17B5}\x{180E}\x{2060}-\x{2064}\x{206A}-\x{206F}\x{FE00}-\x{FE0F}\x{FFF0}-\x{FFF8}]+`),
	}
}

// StripTags removes anything that looks like a tag and leaves the rest of
// body untouched
func (p *HTMLParser) StripTags(body string) string {
	return p.tagRegex.ReplaceAllString(body, "")
}

// HTMLToText strips markup from an HTML body, decodes entities and
// normalizes whitespace
func (p *HTMLParser) HTMLToText(body string) string {
	if body == "" {
		return ""
	}

	text := p.StripTags(body)
	text = html.UnescapeString(text)
	text = p.invisibleRegex.ReplaceAllString(text, "")

	// Clean up whitespace (but preserve newlines)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = p.whitespaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Normalize newlines (max 2 consecutive)
	text = p.newlineRegex.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// ExtractLinks returns up to limit distinct http(s) links of an HTML body
func (p *HTMLParser) ExtractLinks(body string, limit int) ([]string, error) {
	if body == "" || limit <= 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)

		u, err := url.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return true
		}
		if seen[href] {
			return true
		}

		seen[href] = true
		links = append(links, href)
		return len(links) < limit
	})

	return links, nil
}

// Truncate cuts s to at most limit characters and reports whether it did
func Truncate(s string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]), true
}
