package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up" or "down"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// OpenResultAction activates the focused result card
type OpenResultAction struct {
	Slug string
}

func (a OpenResultAction) Type() string { return "open_result" }

// TogglePreviewAction shows or hides the preview pane
type TogglePreviewAction struct{}

func (a TogglePreviewAction) Type() string { return "toggle_preview" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
