package letterboxd

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/mbaxter/reeltaste/internal/types"
)

// titlePattern matches the "Name (YYYY)" form used by feed item titles.
var titlePattern = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)\s*$`)

// starsSuffix strips a trailing star rating some feeds append to the title.
var starsSuffix = regexp.MustCompile(`\s*-\s*★.*$`)

// ParseDiaryFeed extracts diary entries from the RSS feed body. Titles appear
// in document order; the first one is the feed's own title and is discarded.
// Malformed XML yields whatever was readable before the error.
func ParseDiaryFeed(body string) []types.DiaryEntry {
	entries := []types.DiaryEntry{}
	decoder := xml.NewDecoder(strings.NewReader(body))

	titleCount := 0
	inTitle := false
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inTitle = t.Name.Local == "title"
		case xml.EndElement:
			inTitle = false
		case xml.CharData:
			if !inTitle {
				continue
			}
			titleCount++
			if titleCount == 1 {
				continue // feed title
			}
			if entry, ok := parseFeedTitle(string(t)); ok {
				entries = append(entries, entry)
			}
			inTitle = false
		}
	}

	return entries
}

func parseFeedTitle(title string) (types.DiaryEntry, bool) {
	title = starsSuffix.ReplaceAllString(strings.TrimSpace(title), "")
	if title == "" {
		return types.DiaryEntry{}, false
	}
	if m := titlePattern.FindStringSubmatch(title); m != nil {
		name := strings.TrimSpace(m[1])
		if name == "" {
			return types.DiaryEntry{}, false
		}
		return types.DiaryEntry{Name: name, Year: m[2]}, true
	}
	return types.DiaryEntry{Name: title}, true
}
