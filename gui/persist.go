package gui

import (
	"fmt"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// savedState is the durable subset of State. Transient interaction
// (focus, drags, layout caches) is rebuilt from input; only what a
// user would expect to survive a restart is kept.
type savedState struct {
	Collapsed     bool    `toml:"collapsed,omitempty"`
	ScrollOffsetX float32 `toml:"scroll_x,omitempty"`
	ScrollOffsetY float32 `toml:"scroll_y,omitempty"`
	TextCursor    int     `toml:"text_cursor,omitempty"`
}

type savedMemory struct {
	Version int                   `toml:"version"`
	States  map[string]savedState `toml:"states"`
}

const persistVersion = 1

// Serialize snapshots the persistent parts of Memory as an opaque
// blob a host can stash between sessions. Call between frames.
func (m *Memory) Serialize() ([]byte, error) {
	doc := savedMemory{
		Version: persistVersion,
		States:  make(map[string]savedState, len(m.states)),
	}
	for id, s := range m.states {
		sv := savedState{
			Collapsed:     s.Collapsed,
			ScrollOffsetX: s.ScrollOffset.X,
			ScrollOffsetY: s.ScrollOffset.Y,
			TextCursor:    s.TextCursor,
		}
		if sv == (savedState{}) {
			continue
		}
		doc.States[strconv.FormatUint(uint64(id), 16)] = sv
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize memory: %w", err)
	}
	return data, nil
}

// Restore merges a Serialize blob into Memory. Unknown or stale Ids
// load anyway and age out through normal eviction if no widget claims
// them. Call between frames.
func (m *Memory) Restore(data []byte) error {
	var doc savedMemory
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("restore memory: %w", err)
	}
	if doc.Version != persistVersion {
		return fmt.Errorf("restore memory: unsupported version %d", doc.Version)
	}
	for key, sv := range doc.States {
		raw, err := strconv.ParseUint(key, 16, 64)
		if err != nil {
			continue
		}
		s := m.GetOrCreate(Id(raw))
		s.Collapsed = sv.Collapsed
		s.ScrollOffset.X = sv.ScrollOffsetX
		s.ScrollOffset.Y = sv.ScrollOffsetY
		s.TextCursor = sv.TextCursor
	}
	return nil
}
