package persistence

import "strings"

// containsPattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?.
// LIKE wildcards in the input are escaped so they match literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// likeEscape is appended to LIKE clauses built from containsPattern
const likeEscape = ` ESCAPE '\'`
