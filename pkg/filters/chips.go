package filters

import "github.com/goliatone/go-shelfview/pkg/model"

// Labeler resolves display strings by message key.
type Labeler interface {
	Text(key string, args ...any) string
}

// Chip describes one active filter.
type Chip struct {
	Key   model.FilterKey `json:"key"`
	Label string          `json:"label"`
	Value string          `json:"value"`
	// RemoveQuery is the list query of the state with this chip removed.
	RemoveQuery string `json:"remove_query"`
}

// ChipSet is the rendered active-filter area.
type ChipSet struct {
	Chips   []Chip `json:"chips"`
	Visible bool   `json:"visible"`
}

// Chips lists one chip per non-empty filter in title, author, genre, status
// order. The status value is shown through the two-value lookup: "available"
// reads as available, anything else as lent.
func Chips(state model.Filters, labels Labeler) ChipSet {
	if labels == nil {
		labels = plainLabels{}
	}

	set := ChipSet{}
	for _, key := range model.ChipOrder {
		value := state.Get(key)
		if value == "" {
			continue
		}

		display := value
		if key == model.FilterStatus {
			display = StatusLabel(value, labels)
		}

		without, _ := Remove(state, key)
		set.Chips = append(set.Chips, Chip{
			Key:         key,
			Label:       labels.Text("chip."+string(key), display),
			Value:       value,
			RemoveQuery: Query(without),
		})
	}
	set.Visible = len(set.Chips) > 0
	return set
}

// StatusLabel maps a status value onto its display label.
func StatusLabel(status string, labels Labeler) string {
	if labels == nil {
		labels = plainLabels{}
	}
	if model.Status(status) == model.StatusAvailable {
		return labels.Text("status.available")
	}
	return labels.Text("status.lent")
}

type plainLabels struct{}

var plainText = map[string]string{
	"chip.title":       "Title: ",
	"chip.author":      "Author: ",
	"chip.genre":       "Genre: ",
	"chip.status":      "Status: ",
	"status.available": "Available",
	"status.lent":      "Lent out",
}

func (plainLabels) Text(key string, args ...any) string {
	text, ok := plainText[key]
	if !ok {
		text = key
	}
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			return text + s
		}
	}
	return text
}
