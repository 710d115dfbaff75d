package recommend

import "strings"

// platformAliases maps the platform choices offered to users onto the tokens
// that appear in catalog platform names. Matching is a loose case-insensitive
// substring test, so "PS" also matches any platform name containing "ps".
var platformAliases = []struct {
	choice string
	tokens []string
}{
	{"PC", []string{"PC"}},
	{"PS", []string{"PlayStation"}},
	{"Xbox", []string{"Xbox"}},
	{"Switch", []string{"Nintendo Switch", "Nintendo"}},
	{"모바일", []string{"iOS", "Android"}},
	{"Mobile", []string{"iOS", "Android"}},
}

// PlatformChoices lists the platform options the CLI and API advertise.
func PlatformChoices() []string {
	return []string{"PC", "PS", "Xbox", "Switch", "모바일"}
}

// platformTokens expands user platform choices into catalog tokens. Unknown
// choices map to themselves.
func platformTokens(choices []string) []string {
	var tokens []string
	for _, choice := range choices {
		choice = strings.TrimSpace(choice)
		if choice == "" {
			continue
		}
		mapped := false
		for _, alias := range platformAliases {
			if strings.EqualFold(alias.choice, choice) {
				tokens = append(tokens, alias.tokens...)
				mapped = true
				break
			}
		}
		if !mapped {
			tokens = append(tokens, choice)
		}
	}
	return tokens
}

// matchesPlatforms reports whether any token is a case-insensitive substring
// of any catalog platform name. No tokens accepts everything.
func matchesPlatforms(tokens, platforms []string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, platform := range platforms {
		lower := strings.ToLower(platform)
		for _, token := range tokens {
			if strings.Contains(lower, strings.ToLower(token)) {
				return true
			}
		}
	}
	return false
}
