package pageref

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxRangeSpan is the widest range Resolve expands. Wider ranges are dropped.
const MaxRangeSpan = 1000

var (
	pagePrefix   = regexp.MustCompile(`(?i)^pages?`)
	rangePattern = regexp.MustCompile(`^(\d+)\s*[-–—]\s*(\d+)$`)
	digits       = regexp.MustCompile(`^\d+$`)
)

// Resolve expands a citation such as "Page 2-3, 9" into page numbers in textual
// order, with ranges ascending. Segments that do not parse are skipped; the rest
// of the citation still resolves. Resolve never fails and never returns a page
// below 1.
func Resolve(raw string) []int {
	body := stripPage(raw)
	if body == "" {
		return nil
	}

	var pages []int
	for _, seg := range strings.Split(body, ",") {
		pages = append(pages, resolveSegment(stripPage(seg))...)
	}
	return pages
}

func stripPage(s string) string {
	s = strings.TrimSpace(s)
	s = pagePrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func resolveSegment(seg string) []int {
	if m := rangePattern.FindStringSubmatch(seg); m != nil {
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || start < 1 || start > end || end-start >= MaxRangeSpan {
			return nil
		}
		out := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			out = append(out, p)
		}
		return out
	}

	if !digits.MatchString(seg) {
		return nil
	}
	p, err := strconv.Atoi(seg)
	if err != nil || p < 1 {
		return nil
	}
	return []int{p}
}
