package payload

import (
	"regexp"
)

// actionRe matches {kind:argument} action tokens embedded in component custom
// ids, e.g. "btn-primary{0:sm_01ABC}" or "{1:123456789}".
var actionRe = regexp.MustCompile(`\{([0-9]+):([a-zA-Z0-9_]+)\}`)

type ActionKind int

const (
	// ActionUnknown is returned for numeric kinds this version doesn't know.
	ActionUnknown ActionKind = iota
	// ActionRespondSavedMessage responds to the interaction with a rendered
	// saved message. Arg is the saved message id.
	ActionRespondSavedMessage
	// ActionToggleRole adds or removes a role on the interacting member.
	// Arg is the role id.
	ActionToggleRole
)

type Action struct {
	Kind ActionKind
	Arg  string
}

// ParseActions extracts the actions encoded in a component custom id. Plain
// custom ids without action tokens yield an empty slice, which callers must
// treat as "nothing to do" rather than an error.
func ParseActions(customID string) []Action {
	matches := actionRe.FindAllStringSubmatch(customID, -1)
	actions := make([]Action, 0, len(matches))

	for _, match := range matches {
		kind := ActionUnknown
		switch match[1] {
		case "0":
			kind = ActionRespondSavedMessage
		case "1":
			kind = ActionToggleRole
		}
		actions = append(actions, Action{Kind: kind, Arg: match[2]})
	}

	return actions
}
