// Package testutil provides deterministic fixtures shared by session and
// harness tests: canned edits, a fixed duration table, and pre-wired
// session options.
package testutil

import (
	"fmt"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/registry"
	"github.com/tarlow/cutline/internal/session"
	"github.com/tarlow/cutline/internal/timing"
)

// Durations is the canonical probe table used by fixtures: every source
// named by a fixture edit resolves to a stable duration.
var Durations = map[string]float64{
	"intro.mp4":  3,
	"body.mp4":   5,
	"outro.mp4":  2,
	"music.mp3":  10,
	"cover.png":  0,
	"lower.webm": 4,
}

// SessionOptions returns options wiring a session for deterministic tests:
// sequential IDs and the canonical probe table.
func SessionOptions(extra ...session.Option) []session.Option {
	opts := []session.Option{
		session.WithProber(asset.NewStaticProber(Durations)),
		session.WithIDGenerator(registry.NewSequentialGenerator("clip")),
	}
	return append(opts, extra...)
}

// VideoClip builds an auto-timed video clip over src.
func VideoClip(src string) document.Clip {
	return document.Clip{
		Asset:  &asset.Asset{Type: asset.TypeVideo, Src: src},
		Start:  timing.Auto(),
		Length: timing.Auto(),
	}
}

// TitleClip builds an absolutely timed title clip.
func TitleClip(text string, start, length float64) document.Clip {
	return document.Clip{
		Asset:  &asset.Asset{Type: asset.TypeTitle, Text: text},
		Start:  timing.Seconds(start),
		Length: timing.Seconds(length),
	}
}

// SingleTrackEdit returns JSON for a one-track edit over the given sources,
// every clip auto-timed.
func SingleTrackEdit(srcs ...string) []byte {
	clips := ""
	for i, src := range srcs {
		if i > 0 {
			clips += ","
		}
		clips += fmt.Sprintf(`{"asset": {"type": "video", "src": %q}, "start": "auto", "length": "auto"}`, src)
	}
	return []byte(fmt.Sprintf(`{
  "timeline": {"tracks": [{"clips": [%s]}]},
  "output": {"size": {"width": 1280, "height": 720}}
}`, clips))
}

// OverlayEdit returns JSON for a two-track edit: an auto-timed base track
// and an end-length title overlay.
func OverlayEdit(srcs ...string) []byte {
	clips := ""
	for i, src := range srcs {
		if i > 0 {
			clips += ","
		}
		clips += fmt.Sprintf(`{"asset": {"type": "video", "src": %q}, "start": "auto", "length": "auto"}`, src)
	}
	return []byte(fmt.Sprintf(`{
  "timeline": {"tracks": [
    {"clips": [%s]},
    {"clips": [{"asset": {"type": "title", "text": "overlay"}, "start": 0, "length": "end"}]}
  ]},
  "output": {"size": {"width": 1280, "height": 720}}
}`, clips))
}
