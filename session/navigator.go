package session

// Tab names a results view of the drafting client.
type Tab string

const (
	TabOutput   Tab = "output"
	TabHistory  Tab = "history"
	TabActivity Tab = "activity"
)

// Navigator receives presentation requests the engine cannot fulfil itself.
type Navigator interface {
	// CloseOverlay dismisses any overlay navigation (the mobile sidebar).
	CloseOverlay()
	// ShowTab switches the active results view.
	ShowTab(tab Tab)
}

// ActivityResetter clears the activity feed of a session.
type ActivityResetter interface {
	Reset(sessionID string)
}

// NopNavigator ignores all requests.
type NopNavigator struct{}

func (NopNavigator) CloseOverlay()   {}
func (NopNavigator) ShowTab(tab Tab) {}

type nopResetter struct{}

func (nopResetter) Reset(string) {}
