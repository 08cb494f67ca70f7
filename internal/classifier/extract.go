package classifier

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// ExtractJSON returns the trimmed interior of the first fenced code block,
// or text unchanged when there is no fence or the fence is empty.
func ExtractJSON(text string) string {
	m := fencedBlock.FindStringSubmatch(text)
	if m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return text
}
