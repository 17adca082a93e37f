package movement

import "fmt"

// MoveLogEntry is one recorded movement event during a simulation run.
type MoveLogEntry struct {
	Tick     int
	GroupID  string
	MemberID string  // "--" for group-level events
	Category string  // target, path, formation, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] grp-1        m3       path       recalculated       drift=4.7
func (e MoveLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-12s %-8s %-10s %-18s %s",
		e.Tick, shortID(e.GroupID), shortID(e.MemberID), e.Category, e.Key, e.Value)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// MoveLog collects structured movement events. It is unbounded and
// machine-readable; tests and the run report consume it. In verbose mode
// per-member position writes are also recorded.
type MoveLog struct {
	entries []MoveLogEntry
	verbose bool
}

// NewMoveLog creates a MoveLog. If verbose is true, per-tick member
// position entries are recorded too.
func NewMoveLog(verbose bool) *MoveLog {
	return &MoveLog{verbose: verbose}
}

// Add records a new entry. A nil MoveLog discards events so callers never
// have to guard.
func (ml *MoveLog) Add(tick int, groupID, memberID, category, key, value string, numVal float64) {
	if ml == nil {
		return
	}
	ml.entries = append(ml.entries, MoveLogEntry{
		Tick:     tick,
		GroupID:  groupID,
		MemberID: memberID,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MoveLog) AddVerbose(tick int, groupID, memberID, category, key, value string, numVal float64) {
	if ml == nil || !ml.verbose {
		return
	}
	ml.Add(tick, groupID, memberID, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (ml *MoveLog) Entries() []MoveLogEntry {
	if ml == nil {
		return nil
	}
	return ml.entries
}

// FilterMember returns entries recorded for a specific member id.
func (ml *MoveLog) FilterMember(memberID string) []MoveLogEntry {
	var out []MoveLogEntry
	for _, e := range ml.Entries() {
		if e.MemberID == memberID {
			out = append(out, e)
		}
	}
	return out
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (ml *MoveLog) Filter(category, key string) []MoveLogEntry {
	var out []MoveLogEntry
	for _, e := range ml.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}
