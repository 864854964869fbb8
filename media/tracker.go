package media

import "strings"

// Tracker collects image URLs that stop being referenced by an entity while it
// is edited. Nothing is deleted here; Pending is handed to a Cleaner after the
// owning record has been written.
type Tracker struct {
	placeholder string
	pending     []string
	seen        map[string]struct{}
}

func NewTracker(placeholder string) *Tracker {
	return &Tracker{placeholder: strings.TrimSpace(placeholder), seen: map[string]struct{}{}}
}

// Replace records that previous was swapped for next.
func (t *Tracker) Replace(previous, next string) {
	if strings.TrimSpace(previous) == strings.TrimSpace(next) {
		return
	}
	t.Remove(previous)
}

// Remove records that previous is no longer referenced.
func (t *Tracker) Remove(previous string) {
	previous = strings.TrimSpace(previous)
	if previous == "" || previous == t.placeholder {
		return
	}
	if _, ok := t.seen[previous]; ok {
		return
	}
	t.seen[previous] = struct{}{}
	t.pending = append(t.pending, previous)
}

// Diff queues every URL of before that is absent from after.
func (t *Tracker) Diff(before, after []string) {
	kept := make(map[string]struct{}, len(after))
	for _, u := range after {
		kept[strings.TrimSpace(u)] = struct{}{}
	}
	for _, u := range before {
		if _, ok := kept[strings.TrimSpace(u)]; ok {
			continue
		}
		t.Remove(u)
	}
}

func (t *Tracker) Pending() []string {
	out := make([]string, len(t.pending))
	copy(out, t.pending)
	return out
}
