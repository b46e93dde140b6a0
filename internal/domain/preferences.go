package domain

// Preferences is the persisted form of the pin / mute / expand sets.
type Preferences struct {
	Pinned []string `json:"pinned"`
	Muted  []string `json:"muted"`
	Open   []string `json:"openRows"`
}

func (p Preferences) Empty() bool {
	return len(p.Pinned) == 0 && len(p.Muted) == 0 && len(p.Open) == 0
}
