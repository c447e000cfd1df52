package ui

import (
	"slices"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/surf/internal/models"
)

var (
	_ list.Item = learningStyleItem{}
)

// learningStyleItem wraps [models.LearningStyle] to implement [list.Item].
type learningStyleItem struct {
	style    models.LearningStyle
	selected bool
}

func (i learningStyleItem) FilterValue() string { return i.style.Label }
func (i learningStyleItem) Description() string { return i.style.Description }
func (i learningStyleItem) Title() string {
	if i.selected {
		return "[x] " + i.style.Label
	}
	return "[ ] " + i.style.Label
}

// learningStyleItems builds list items in UI order, marking the ids in selected.
func learningStyleItems(selected []string) []list.Item {
	items := make([]list.Item, len(models.LearningStyles))
	for i, s := range models.LearningStyles {
		items[i] = learningStyleItem{style: s, selected: slices.Contains(selected, s.ID)}
	}
	return items
}

func newLearningStyleList(selected []string) list.Model {
	l := list.New(learningStyleItems(selected), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Learning styles"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetSize(60, 3*len(models.LearningStyles)+2)
	return l
}
