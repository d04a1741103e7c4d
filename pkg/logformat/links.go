package logformat

import (
	"regexp"

	"mvdan.cc/xurls/v2"
)

// LinkFinder locates URLs in plain text. Ranges are byte offsets [start, end),
// ordered and disjoint.
type LinkFinder interface {
	Find(text string) [][2]int
}

// LinkFinderFunc adapts a function to LinkFinder
type LinkFinderFunc func(text string) [][2]int

// Find implements LinkFinder
func (f LinkFinderFunc) Find(text string) [][2]int {
	return f(text)
}

// URLFinder finds links with or without a scheme, e.g. https://github.com
// and example.com
type URLFinder struct {
	re *regexp.Regexp
}

// NewURLFinder creates a finder using relaxed URL matching
func NewURLFinder() *URLFinder {
	return &URLFinder{re: xurls.Relaxed()}
}

// NewStrictURLFinder creates a finder that only matches URLs with a scheme
func NewStrictURLFinder() *URLFinder {
	return &URLFinder{re: xurls.Strict()}
}

// Find implements LinkFinder
func (f *URLFinder) Find(text string) [][2]int {
	matches := f.re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	ranges := make([][2]int, 0, len(matches))
	for _, m := range matches {
		ranges = append(ranges, [2]int{m[0], m[1]})
	}
	return ranges
}

// ExtractLinks maps the start offset of every link in content to its end
func ExtractLinks(finder LinkFinder, content string) map[int]int {
	if finder == nil || content == "" {
		return nil
	}
	found := finder.Find(content)
	if len(found) == 0 {
		return nil
	}
	links := make(map[int]int, len(found))
	for _, r := range found {
		if r[0] < 0 || r[1] > len(content) || r[0] >= r[1] {
			continue
		}
		links[r[0]] = r[1]
	}
	return links
}
