package storage

import "strings"

// LikeEscape is the escape character used with LikePattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(
	LikeEscape, LikeEscape+LikeEscape,
	`%`, LikeEscape+`%`,
	`_`, LikeEscape+`_`,
)

// LikeCondition renders "expr LIKE pattern ESCAPE '\'". pattern is usually
// a placeholder, optionally wrapped, e.g. LikeCondition("LOWER(name)", "LOWER(?)").
func LikeCondition(expr, pattern string) string {
	return expr + " LIKE " + pattern + " ESCAPE '" + LikeEscape + "'"
}

// LikePattern turns keyword into a "contains" pattern for SQL LIKE with the
// wildcard characters of keyword escaped.
func LikePattern(keyword string) string {
	return "%" + likeReplacer.Replace(keyword) + "%"
}

// Contains reports whether s contains keyword, honouring caseSensitive.
// Backends whose LIKE folding differs from the requested mode use it to
// filter candidate rows.
func Contains(s, keyword string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(s, keyword)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(keyword))
}
