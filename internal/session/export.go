package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/merge"
	"github.com/tarlow/cutline/internal/timing"
)

// GetEdit returns a deep copy of the document form: timing symbols are
// preserved exactly as authored, merge values substituted.
func (s *Session) GetEdit() *document.Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// GetResolvedEdit returns a deep copy of the document with every clip's
// timing replaced by the registry's resolved numbers. Symbols never appear
// in the result.
func (s *Session) GetResolvedEdit() *document.Edit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.doc.Clone()
	for ti := range out.Timeline.Tracks {
		for ci := range out.Timeline.Tracks[ti].Clips {
			clip, err := s.reg.ClipAt(ti, ci)
			if err != nil {
				continue
			}
			out.Timeline.Tracks[ti].Clips[ci].Start = timing.Seconds(clip.Start)
			out.Timeline.Tracks[ti].Clips[ci].Length = timing.Seconds(clip.Length)
		}
	}
	return out
}

// ExportTemplate serializes the document with every bound property restored
// to its "{{ NAME }}" placeholder, producing a reusable template.
func (s *Session) ExportTemplate() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := document.Tree(s.doc)
	if err != nil {
		return nil, err
	}
	for _, b := range s.bindings.All() {
		if !merge.SetPath(tree, b.Path, b.Placeholder) {
			return nil, fmt.Errorf("session: export: binding path %q no longer exists", b.Path)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return nil, fmt.Errorf("session: export: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
