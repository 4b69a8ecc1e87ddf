package payload

import (
	"regexp"
	"strings"
)

// variableRe matches {{namespace.key}} and {{namespace.key|default}} tokens.
var variableRe = regexp.MustCompile(`\{\{([a-z\.]+)(?:\|([^{}|]*))?\}\}`)

// SubstituteVariables replaces every variable token in s using the given
// variable map. Tokens that don't resolve fall back to their inline default,
// and finally to the verbatim token text. Unknown tokens are never an error:
// a payload must survive substitution with an empty variable map unchanged.
func SubstituteVariables(s string, variables map[string]string) string {
	return variableRe.ReplaceAllStringFunc(s, func(token string) string {
		groups := variableRe.FindStringSubmatch(token)
		if val, ok := variables[groups[1]]; ok {
			return val
		}
		// an empty default ({{x|}}) still counts as a default
		if strings.Contains(token, "|") {
			return groups[2]
		}
		return token
	})
}

// ApplyVariables substitutes variable tokens across all free-text fields of
// the payload: the content plus embed titles, descriptions, authors, footers
// and fields. Component custom ids are deliberately left untouched so that
// substitution can never alter the integrity hash.
func (p *MessagePayload) ApplyVariables(variables map[string]string) {
	p.Content = SubstituteVariables(p.Content, variables)

	for _, embed := range p.Embeds {
		if embed == nil {
			continue
		}
		embed.Title = SubstituteVariables(embed.Title, variables)
		embed.Description = SubstituteVariables(embed.Description, variables)
		if embed.Author != nil {
			embed.Author.Name = SubstituteVariables(embed.Author.Name, variables)
		}
		if embed.Footer != nil {
			embed.Footer.Text = SubstituteVariables(embed.Footer.Text, variables)
		}
		for _, field := range embed.Fields {
			if field == nil {
				continue
			}
			field.Name = SubstituteVariables(field.Name, variables)
			field.Value = SubstituteVariables(field.Value, variables)
		}
	}
}
