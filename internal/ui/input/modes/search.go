package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"siteseek/internal/ui/input/types"
)

// SearchMode is the open search overlay: text edits the query, arrows and
// tab move focus through the result cards, enter opens the focused card.
type SearchMode struct {
	textInput *textinput.Model
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{textInput: ti}
}

func (m *SearchMode) Name() string {
	return "search"
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Reset()
		m.textInput.Focus()
		m.textInput.Prompt = "" // prompt is drawn by the view layer
	}
	return nil
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
		m.textInput.Reset()
	}
	return nil
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{
			types.CancelTextAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case tea.KeyEnter:
		if ctx.ResultCount() == 0 || ctx.FocusedIsNoMatch() {
			return nil, true
		}
		return []types.Action{types.OpenResultAction{Slug: ctx.FocusedSlug()}}, true

	case tea.KeyCtrlP:
		return []types.Action{types.TogglePreviewAction{}}, true

	case tea.KeyUp, tea.KeyShiftTab:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown, tea.KeyTab:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	}

	// Everything else edits the query text.
	return nil, false
}
