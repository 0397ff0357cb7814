package booking

// ModalTarget is where a dismiss gesture landed.
type ModalTarget int

const (
	TargetCloseButton ModalTarget = iota
	TargetBackdrop
	TargetContent
)

// Modal is a show/hide overlay carrying one message.
type Modal struct {
	Visible bool
	Message string
}

func (m *Modal) Show(message string) {
	m.Visible = true
	m.Message = message
}

// Dismiss hides the modal when target is the close control or the backdrop.
// Clicks on the content leave it open. It reports whether the modal closed.
func (m *Modal) Dismiss(target ModalTarget) bool {
	if !m.Visible {
		return false
	}
	switch target {
	case TargetCloseButton, TargetBackdrop:
		m.Visible = false
		m.Message = ""
		return true
	}
	return false
}
