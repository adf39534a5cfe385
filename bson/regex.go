package bson

import "sort"

// validRegexOptions are the flag characters BSON regex recognizes; "l"
// (locale) is legacy and preserved on round trip but dropped when
// projecting to a host regex engine.
const validRegexOptions = "imlsux"

// sortRegexOptions returns options with its characters sorted ascending
// alphabetically, matching the wire-write rule. Unrecognized characters
// are preserved (read tolerates them; sorting canonicalizes ordering, not
// content).
func sortRegexOptions(options string) string {
	chars := []byte(options)
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	return string(chars)
}

// HostOptions returns r's Options with the legacy "l" (locale) flag
// removed, suitable for handing to a host regex engine that has no
// concept of it.
func (r Regex) HostOptions() string {
	out := make([]byte, 0, len(r.Options))
	for i := 0; i < len(r.Options); i++ {
		if r.Options[i] != 'l' {
			out = append(out, r.Options[i])
		}
	}
	return string(out)
}
