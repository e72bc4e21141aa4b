package engine

import (
	"fmt"
	"strings"
	"unicode"
)

const maxAcronymLen = 8

var labelStopWords = map[string]bool{
	"of": true, "and": true, "the": true, "for": true, "&": true, "at": true, "in": true,
}

// labeler hands out short display labels that are unique within one request.
type labeler struct {
	used map[string]int
}

func newLabeler() *labeler {
	return &labeler{used: make(map[string]int)}
}

func (l *labeler) next(institution, academicYear, batchID string) string {
	base := acronym(institution)
	if base == "" {
		base = "INST-" + tail(batchID, 4)
	}
	if year := shortYear(academicYear); year != "" {
		base = base + " " + year
	}

	l.used[base]++
	if n := l.used[base]; n > 1 {
		return fmt.Sprintf("%s #%d", base, n)
	}
	return base
}

// acronym keeps all-caps words whole ("IIT") and takes the initial of the others.
func acronym(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '-' || r == '.' || r == '(' || r == ')'
	}) {
		if labelStopWords[strings.ToLower(word)] {
			continue
		}
		if isUpperWord(word) {
			b.WriteString(word)
		} else {
			b.WriteRune(unicode.ToUpper([]rune(word)[0]))
		}
	}
	out := []rune(b.String())
	if len(out) > maxAcronymLen {
		out = out[:maxAcronymLen]
	}
	return string(out)
}

func isUpperWord(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

// shortYear turns "2024-25" or "2024-2025" into "24-25". Anything else is returned as is.
func shortYear(year string) string {
	year = strings.TrimSpace(year)
	parts := strings.Split(year, "-")
	if len(parts) != 2 || len(parts[0]) != 4 {
		return year
	}
	end := parts[1]
	if len(end) == 4 {
		end = end[2:]
	}
	return parts[0][2:] + "-" + end
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
