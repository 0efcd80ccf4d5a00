package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rbxup/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ItemListView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	items        []tasks.Item
	itemList     list.Model
	resultList   list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan runCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.BatchResult
	err          error
	width        int
	height       int
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type runCompleteMsg struct {
	result *tasks.BatchResult
	err    error
}

// NewModel creates a new TUI model for the given batch items.
func NewModel(ctx context.Context, engine tasks.Engine, items []tasks.Item) *Model {
	return &Model{
		ctx:    ctx,
		view:   ItemListView,
		engine: engine,
		items:  items,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init builds the item list; the batch is already in memory so no IO happens here.
func (m *Model) Init() tea.Cmd {
	items := make([]list.Item, len(m.items))
	for i, it := range m.items {
		items[i] = batchItem{item: it}
	}
	m.itemList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.itemList.Title = fmt.Sprintf("Assets to reupload (%d)", len(m.items))
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.itemList.SetSize(msg.Width-4, msg.Height-8)
		if m.resultList.Width() == 0 {
			m.resultList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ItemListView:
			return m.handleItemListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		if m.result != nil {
			items := make([]list.Item, len(m.result.Results))
			for i, res := range m.result.Results {
				items[i] = resultItem{result: res}
			}
			m.resultList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
			m.resultList.Title = "Batch results"
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ItemListView:
		return m.renderItemList()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ItemListView
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ItemListView
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultList, cmd = m.resultList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ItemListView:
		m.itemList, cmd = m.itemList.Update(msg)
	case ResultView:
		m.resultList, cmd = m.resultList.Update(msg)
	}
	return m, cmd
}

func (m *Model) startRun() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progress

	done := make(chan runCompleteMsg, 1)

	go func() {
		result, err := m.engine.Run(m.ctx, m.items, progress)
		done <- runCompleteMsg{result: result, err: err}
		close(progress)
	}()

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	done := m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderItemList() string {
	startKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start"))
	helpView := m.help.ShortHelpView([]key.Binding{startKey, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.itemList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Reupload %d assets?", len(m.items)))

	checked := 0
	for _, it := range m.items {
		if it.CheckExisting {
			checked++
		}
	}
	info := fmt.Sprintf("\nItems: %d\nDuplicate checks: %d\n", len(m.items), checked)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Reuploading assets")

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseCheckExisting:
		phase = fmt.Sprintf("Checking for an existing copy (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PhaseFetch:
		phase = fmt.Sprintf("Downloading (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PhasePublish:
		phase = fmt.Sprintf("Uploading (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PhaseItemDone:
		phase = fmt.Sprintf("Finished item %d/%d", m.progress.Step, m.progress.Total)
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Batch failed: %v\n\nPress r to retry, q to quit", m.err))
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("Batch complete")
	summary := fmt.Sprintf("uploaded %d, reused %d, failed %d", m.result.OKCount, m.result.ExistingCount, m.result.FailedCount)
	if m.result.FailedCount > 0 {
		summary = styles.warn.Render(summary)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, summary, m.resultList.View(), helpView)
}
