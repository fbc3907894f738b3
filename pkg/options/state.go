package options

// State is the page lifecycle position.
type State int

const (
	// StateDefined: tabs, sections and fields are being assembled.
	StateDefined State = iota
	// StateRegistered: namespaces are registered with the settings store.
	StateRegistered
	// StateRendering: the last request rendered the page.
	StateRendering
	// StateSubmitted: the last request validated a submission.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateDefined:
		return "defined"
	case StateRegistered:
		return "registered"
	case StateRendering:
		return "rendering"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// State reports the lifecycle position.
func (p *Page) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// advance moves a registered page between Rendering and Submitted. Pages that
// were never registered stay Defined.
func (p *Page) advance(next State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateDefined {
		return
	}
	p.state = next
}
