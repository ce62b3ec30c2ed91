package citations

import (
	"fmt"
	"regexp"
)

// tokenPattern matches bracketed UCC section references produced by the
// analysis prompts, e.g. [UCC § 3-104], [UCC 9-609] or [UCC §3-305].
// Capture groups: article number, section number (optional letter suffix).
var tokenPattern = regexp.MustCompile(`\[UCC\s*§?\s*(\d+)-(\d+[A-Za-z]?)\]`)

// Citation is one extracted article/section reference.
type Citation struct {
	Article string `json:"article"`
	Section string `json:"section"`
}

// ID is the stable identity of a citation ("3-104"). Explanations are
// keyed by it, so the same section cited twice shares one explanation.
func (c Citation) ID() string {
	return c.Article + "-" + c.Section
}

// Link builds the deterministic reference URL for the cited section.
func (c Citation) Link() string {
	return fmt.Sprintf("https://www.law.cornell.edu/ucc/%s/%s-%s", c.Article, c.Article, c.Section)
}

// Segment is one piece of a split text: either plain text or a citation
// token. Segments alternate and concatenating Raw over all segments
// reproduces the input verbatim.
type Segment struct {
	Raw      string    `json:"raw"`
	Citation *Citation `json:"citation,omitempty"`
	Link     string    `json:"link,omitempty"`
}

// Extract splits text into alternating plain and citation segments,
// preserving original order and all non-matching text.
func Extract(text string) []Segment {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Raw: text}}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			segments = append(segments, Segment{Raw: text[last:m[0]]})
		}
		c := &Citation{
			Article: text[m[2]:m[3]],
			Section: text[m[4]:m[5]],
		}
		segments = append(segments, Segment{
			Raw:      text[m[0]:m[1]],
			Citation: c,
			Link:     c.Link(),
		})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Raw: text[last:]})
	}
	return segments
}

// List returns the distinct citations of a text in first-appearance order.
func List(text string) []Citation {
	seen := map[string]bool{}
	var out []Citation
	for _, seg := range Extract(text) {
		if seg.Citation == nil {
			continue
		}
		if seen[seg.Citation.ID()] {
			continue
		}
		seen[seg.Citation.ID()] = true
		out = append(out, *seg.Citation)
	}
	return out
}

// Parse validates a citation id of the form "<article>-<section>".
func Parse(id string) (Citation, bool) {
	m := regexp.MustCompile(`^(\d+)-(\d+[A-Za-z]?)$`).FindStringSubmatch(id)
	if m == nil {
		return Citation{}, false
	}
	return Citation{Article: m[1], Section: m[2]}, true
}
