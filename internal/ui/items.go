package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rbxup/internal/tasks"
)

var (
	_ list.Item = batchItem{}
	_ list.Item = resultItem{}
)

// batchItem wraps [tasks.Item] to implement [list.Item].
type batchItem struct {
	item tasks.Item
}

func (i batchItem) FilterValue() string { return i.item.Name }
func (i batchItem) Title() string       { return i.item.Name }
func (i batchItem) Description() string {
	desc := fmt.Sprintf("%s • asset %d", tasks.NormalizeKind(i.item.Kind), i.item.SourceID)
	if i.item.CheckExisting {
		desc += " • reuse existing"
	}
	return desc
}

// resultItem wraps [tasks.ItemResult] to implement [list.Item].
type resultItem struct {
	result tasks.ItemResult
}

func (i resultItem) FilterValue() string { return i.result.Name }
func (i resultItem) Title() string {
	switch i.result.Status {
	case tasks.StatusOK:
		return styles.ok.Render("✓ " + i.result.Name)
	case tasks.StatusOKExisting:
		return styles.ok.Render("↺ " + i.result.Name)
	default:
		return styles.err.Render("✗ " + i.result.Name)
	}
}

func (i resultItem) Description() string {
	if i.result.NewID != nil {
		return fmt.Sprintf("%d → %s", i.result.SourceID, strconv.FormatInt(*i.result.NewID, 10))
	}
	return fmt.Sprintf("%d → %s: %s", i.result.SourceID, i.result.Status, i.result.Error)
}
