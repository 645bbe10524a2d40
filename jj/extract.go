package jj

import "regexp"

// MinExtractedIDLen is the minimum length an extracted identifier must have
// to be trusted. Shorter matches are almost certainly token fragments.
const MinExtractedIDLen = 4

var (
	ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

	// graphGlyphs covers the box-drawing and node characters jj uses for
	// the log graph, plus the working-copy/root markers.
	graphGlyphs = `[@○◆×│├┤╭╮╰╯┐┘┌└─┬┴┼~\s]`

	// "changeid author@host ..." - the standard first line of a rendered
	// log entry.
	idAuthorRE = regexp.MustCompile(`^` + graphGlyphs + `*([A-Za-z0-9]+)\s+\S*@\S*`)

	// A trailing 8-character hex token (short commit ID at end of line).
	// Anchored at a word start so a longer hex token never yields its
	// last 8 characters as a bogus match.
	trailingHexRE = regexp.MustCompile(`(?:^|\s)([0-9a-f]{8})\s*$`)

	// A lone glyph-prefixed alphanumeric token.
	loneTokenRE = regexp.MustCompile(`^` + graphGlyphs + `*([A-Za-z0-9]+)\s*$`)
)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ExtractChangeID pulls a change identifier out of a rendered log line.
// This is the heuristic fallback for "identifier under cursor in an
// already-rendered view"; the structured template path is preferred wherever
// possible. Patterns are tried in order, first match wins, and matches
// shorter than MinExtractedIDLen are rejected.
func ExtractChangeID(line string) (string, bool) {
	plain := StripANSI(line)

	for _, re := range []*regexp.Regexp{idAuthorRE, trailingHexRE, loneTokenRE} {
		if m := re.FindStringSubmatch(plain); m != nil {
			if len(m[1]) < MinExtractedIDLen {
				return "", false
			}
			return m[1], true
		}
	}
	return "", false
}
