package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"siteseek/internal/ui/input/types"
)

type NormalMode struct {
	toggleKey string
}

func NewNormalMode(toggleKey string) *NormalMode {
	if toggleKey == "" {
		toggleKey = "/"
	}
	return &NormalMode{toggleKey: toggleKey}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	switch msg.String() {
	case m.toggleKey:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}
