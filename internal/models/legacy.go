package models

import "encoding/json"

// GoalList decodes both the structured goal shape and the plain string
// arrays written by early snapshot versions. Strings become entries with an
// empty ID; the store's migration assigns identifiers.
type GoalList []ProjectGoal

func (g *GoalList) UnmarshalJSON(b []byte) error {
	var entries []ProjectGoal
	if err := json.Unmarshal(b, &entries); err == nil {
		*g = entries
		return nil
	}
	var texts []string
	if err := json.Unmarshal(b, &texts); err != nil {
		return err
	}
	entries = make([]ProjectGoal, 0, len(texts))
	for _, t := range texts {
		entries = append(entries, ProjectGoal{Text: t})
	}
	*g = entries
	return nil
}

// PDIList decodes both the structured development-plan shape and the bare
// free-text field used before plans were itemized. A bare string becomes a
// single legacy-tagged entry.
type PDIList []PDIItem

func (p *PDIList) UnmarshalJSON(b []byte) error {
	var items []PDIItem
	if err := json.Unmarshal(b, &items); err == nil {
		*p = items
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	if text == "" {
		*p = nil
		return nil
	}
	*p = PDIList{{ID: "legacy", Text: "Legacy plan (text): " + text, IsCompleted: false}}
	return nil
}
