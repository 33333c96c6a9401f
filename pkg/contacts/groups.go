package contacts

import "fmt"

// GroupLabel builds a display label for a group chat without a custom name
// from its participant names: "Alex", "Alex, Sam", or "Alex, Sam + 3
// others". Duplicate names are collapsed while preserving order. When no
// participants resolve at all, the label falls back to the chat row id.
func GroupLabel(participantNames []string, chatRowID int64) string {
	seen := make(map[string]struct{}, len(participantNames))
	unique := make([]string, 0, len(participantNames))
	for _, name := range participantNames {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	switch len(unique) {
	case 0:
		return fmt.Sprintf("Group chat #%d", chatRowID)
	case 1:
		return unique[0]
	case 2:
		return unique[0] + ", " + unique[1]
	default:
		return fmt.Sprintf("%s, %s + %d others", unique[0], unique[1], len(unique)-2)
	}
}
