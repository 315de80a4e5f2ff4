// Package session orchestrates the two layers of an edit: the symbolic
// document and the resolved runtime registry. All mutation flows through a
// reversible command log; consumers observe changes on a typed event
// channel. A session has a single logical writer; the event channel is the
// only read surface safe to share.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/command"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
	"github.com/tarlow/cutline/internal/journal"
	"github.com/tarlow/cutline/internal/merge"
	"github.com/tarlow/cutline/internal/registry"
	"github.com/tarlow/cutline/internal/timing"
)

// Session owns the document, the registry, the merge state, and the command
// log, and keeps them synchronized.
type Session struct {
	mu sync.Mutex

	doc      *document.Edit
	reg      *registry.Registry
	merge    *merge.Registry
	bindings *merge.BindingSet
	log      *command.Log

	prober        asset.DurationProber
	gen           registry.IDGenerator
	defaultLength float64
	jnl           *journal.Journal
	logger        *slog.Logger

	events chan event.Event
	// batching suppresses granular events during hot reload so N clip
	// updates coalesce into one EditChanged.
	batching   bool
	suppressed int
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		doc:           &document.Edit{Timeline: document.Timeline{Tracks: []document.Track{}}},
		merge:         merge.NewRegistry(),
		bindings:      merge.NewBindingSet(),
		log:           command.NewLog(),
		gen:           registry.UUIDv7Generator{},
		defaultLength: DefaultClipLength,
		logger:        slog.Default(),
		events:        make(chan event.Event, eventBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reg = registry.New(s.gen)
	s.merge.OnChange = func(name string) {
		s.emit(event.MergeFieldChanged{Name: name})
	}
	return s
}

// Events returns the outbound event channel. Read-only; events are emitted
// strictly after both layers reflect the new state.
func (s *Session) Events() <-chan event.Event { return s.events }

// Load replaces the session's whole state from raw JSON edit bytes.
//
// The pipeline is: validate (fail closed, nothing mutated on error) →
// register merge fields → detect placeholder bindings on the raw tree →
// substitute → decode → build the runtime registry with timing resolution.
// Per-clip failures are recorded on their clips and surfaced as events; the
// load itself succeeds.
func (s *Session) Load(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, raw)
}

func (s *Session) load(ctx context.Context, raw []byte) error {
	res := document.Validate(raw)
	if !res.Valid {
		return &InvalidEditError{Errors: res.Errors}
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	// A full load starts from clean merge state: fields declared by a
	// previous document must not substitute into this one. The fresh
	// registry replaces s.merge only once the load can no longer fail.
	mreg := merge.NewRegistry()
	registerMergeFields(mreg, tree)
	detected := mreg.DetectBindings("", tree)

	resolved, ok := mreg.ResolveTree(tree).(map[string]any)
	if !ok {
		return fmt.Errorf("session: load: substituted document is not an object")
	}
	substituted, err := json.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	edit, err := document.Decode(substituted)
	if err != nil {
		return err
	}

	s.doc = edit
	s.merge = mreg
	s.merge.OnChange = func(name string) {
		s.emit(event.MergeFieldChanged{Name: name})
	}
	s.initRuntime(ctx)
	s.bindings = merge.NewBindingSet(s.assignBindingIDs(detected)...)
	s.log.Clear()

	s.logger.Info("edit loaded",
		"tracks", len(edit.Timeline.Tracks),
		"clips", edit.ClipCount(),
		"merge_fields", s.merge.Len(),
		"duration", s.reg.Duration(),
	)
	s.emit(event.TimelineUpdated{Duration: s.reg.Duration()})
	s.emit(event.EditChanged{})
	return nil
}

// registerMergeFields registers the document's merge array silently, so a
// load does not fire a MergeFieldChanged per declared field.
func registerMergeFields(reg *merge.Registry, tree map[string]any) {
	entries, ok := tree["merge"].([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		find, ok := m["find"].(string)
		if !ok || find == "" {
			continue
		}
		reg.Register(find, m["replace"], merge.RegisterOptions{Silent: true})
	}
}

// initRuntime rebuilds the registry from the current document, resolving
// timing clip by clip and then propagating to a fixed point.
func (s *Session) initRuntime(ctx context.Context) {
	s.reg.Clear()
	cctx := s.commandContext(ctx)
	for ti, track := range s.doc.Timeline.Tracks {
		if _, err := s.reg.InsertTrack(ti); err != nil {
			s.logger.Error("init track", "track", ti, "error", err)
			continue
		}
		for ci, docClip := range track.Clips {
			clip, warn, buildErr := command.BuildClip(cctx, docClip, "")
			if err := s.reg.InsertClip(ti, clip, ci); err != nil {
				s.logger.Error("init clip", "track", ti, "clip", ci, "error", err)
				continue
			}
			if buildErr != nil {
				s.emit(event.ClipError{Track: ti, Clip: ci, ID: clip.ID,
					Err: &ClipLoadError{Track: ti, Clip: ci, Err: buildErr}})
			}
			if warn != nil {
				s.emit(event.ClipWarning{Track: ti, Clip: ci, ID: clip.ID, Err: warn})
			}
		}
	}
	s.reg.PropagateAll()
}

// assignBindingIDs stamps each clip-path binding with the stable ID of the
// runtime clip that now owns it.
func (s *Session) assignBindingIDs(bindings []merge.Binding) []merge.Binding {
	for i, b := range bindings {
		trackIdx, clipIdx, _, ok := command.ClipPosition(b.Path)
		if !ok {
			continue
		}
		clip, err := s.reg.ClipAt(trackIdx, clipIdx)
		if err != nil {
			continue
		}
		bindings[i].ClipID = clip.ID
	}
	return bindings
}

// commandContext bundles the current state for command execution.
func (s *Session) commandContext(ctx context.Context) *command.Context {
	return &command.Context{
		Ctx:           ctx,
		Doc:           s.doc,
		Reg:           s.reg,
		Merge:         s.merge,
		Bindings:      s.bindings,
		Probe:         s.prober,
		DefaultLength: s.defaultLength,
		Emit:          s.emit,
	}
}

// run executes one command through the log, journals it, and emits the
// coalescing EditChanged.
func (s *Session) run(ctx context.Context, cmd command.Command) error {
	if err := s.log.Execute(s.commandContext(ctx), cmd); err != nil {
		return err
	}
	s.journalCommand(ctx, cmd.Name())
	s.emit(event.EditChanged{})
	return nil
}

func (s *Session) journalCommand(ctx context.Context, name string) {
	if s.jnl == nil {
		return
	}
	if err := s.jnl.Append(ctx, s.log.Seq(), name, s.doc); err != nil {
		// The journal is tooling; a failed append never fails the command.
		s.logger.Warn("journal append failed", "command", name, "error", err)
	}
}

// AddClip inserts a clip at (trackIdx, clipIdx).
func (s *Session) AddClip(ctx context.Context, trackIdx, clipIdx int, clip document.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.AddClip{TrackIdx: trackIdx, ClipIdx: clipIdx, Clip: clip})
}

// DeleteClip removes the clip at (trackIdx, clipIdx).
func (s *Session) DeleteClip(ctx context.Context, trackIdx, clipIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.DeleteClip{TrackIdx: trackIdx, ClipIdx: clipIdx})
}

// UpdateClip replaces the whole document configuration of a clip.
func (s *Session) UpdateClip(ctx context.Context, trackIdx, clipIdx int, clip document.Clip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.UpdateClip{TrackIdx: trackIdx, ClipIdx: clipIdx, Clip: clip})
}

// UpdateClipTiming sets a clip's start and/or length; nil leaves a field
// untouched. Symbols and absolute seconds are both accepted ("end" only as
// a length).
func (s *Session) UpdateClipTiming(ctx context.Context, trackIdx, clipIdx int, start, length *timing.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.UpdateTiming{TrackIdx: trackIdx, ClipIdx: clipIdx, Start: start, Length: length})
}

// SplitClip cuts a clip at an absolute timeline time.
func (s *Session) SplitClip(ctx context.Context, trackIdx, clipIdx int, at float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.SplitClip{TrackIdx: trackIdx, ClipIdx: clipIdx, At: at})
}

// AddTrack inserts an empty track at index.
func (s *Session) AddTrack(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.AddTrack{Index: index})
}

// DeleteTrack removes the track at index with all its clips.
func (s *Session) DeleteTrack(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.DeleteTrack{Index: index})
}

// OutputUpdate carries the output settings to change; nil fields are left
// untouched.
type OutputUpdate struct {
	Size       *document.Size
	FPS        *float64
	Format     *string
	Background *string
}

// UpdateOutput changes output and background settings.
func (s *Session) UpdateOutput(ctx context.Context, upd OutputUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.UpdateOutput{
		Size:       upd.Size,
		FPS:        upd.FPS,
		Format:     upd.Format,
		Background: upd.Background,
	})
}

// ApplyMergeField binds the clip property at path to a named merge field
// with a value. The document stores the resolved value; the placeholder is
// reproduced on template export.
func (s *Session) ApplyMergeField(ctx context.Context, path, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.ApplyMergeField{Path: path, Field: field, Value: value})
}

// RemoveMergeField breaks the binding at path and restores the property to
// original, the explicit value it held before the field was applied. The
// field stays registered for other bindings.
func (s *Session) RemoveMergeField(ctx context.Context, path string, original any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.RemoveMergeField{Path: path, Original: original})
}

// DeleteMergeFieldGlobally unregisters a field and drops every binding that
// uses it. Bound properties keep their resolved values.
func (s *Session) DeleteMergeFieldGlobally(ctx context.Context, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, &command.DeleteMergeFieldGlobally{Field: field})
}

// Undo reverses the most recent command. No-op with no history.
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.log.CanUndo() {
		return nil
	}
	if err := s.log.Undo(s.commandContext(ctx)); err != nil {
		return err
	}
	s.emit(event.EditChanged{})
	return nil
}

// Redo re-applies the next undone command. No-op without forward history.
func (s *Session) Redo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.log.CanRedo() {
		return nil
	}
	if err := s.log.Redo(s.commandContext(ctx)); err != nil {
		return err
	}
	s.emit(event.EditChanged{})
	return nil
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanUndo()
}

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CanRedo()
}

// HistoryLen returns the number of commands in the log.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Len()
}

// Duration returns the resolved total timeline duration in seconds.
func (s *Session) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Duration()
}

// Fields returns the registered merge fields in registration order.
func (s *Session) Fields() []merge.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merge.Fields()
}

// Bindings returns every placeholder binding in detection order.
func (s *Session) Bindings() []merge.Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindings.All()
}

// ValidateEdit checks raw edit bytes against the wire schema without
// touching session state.
func (s *Session) ValidateEdit(raw []byte) document.Result {
	return document.Validate(raw)
}

// Close releases the journal, if any. The event channel is not closed;
// sessions are dropped, not drained.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jnl.Close()
}

// emit delivers an event without ever blocking the writer. Under batching,
// granular events are suppressed and counted.
func (s *Session) emit(e event.Event) {
	if s.batching {
		s.suppressed++
		return
	}
	select {
	case s.events <- e:
	default:
		s.logger.Debug("event dropped", "type", fmt.Sprintf("%T", e))
	}
}
