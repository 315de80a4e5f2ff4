package command

import "github.com/tarlow/cutline/internal/document"

// UpdateOutput changes output/background settings. Nil fields are left
// untouched. The registry carries no output state, so this command only
// mutates the document; it is still logged for undo.
type UpdateOutput struct {
	Size       *document.Size
	FPS        *float64
	Format     *string
	Background *string

	prevSize       document.Size
	prevFPS        float64
	prevFormat     string
	prevBackground string
}

// Name implements Command.
func (u *UpdateOutput) Name() string { return "update_output" }

// Execute implements Command.
func (u *UpdateOutput) Execute(ctx *Context) error {
	u.prevSize = ctx.Doc.Output.Size
	u.prevFPS = ctx.Doc.Output.FPS
	u.prevFormat = ctx.Doc.Output.Format
	u.prevBackground = ctx.Doc.Timeline.Background

	if u.Size != nil {
		ctx.Doc.SetSize(u.Size.Width, u.Size.Height)
	}
	if u.FPS != nil {
		ctx.Doc.SetFPS(*u.FPS)
	}
	if u.Format != nil {
		ctx.Doc.SetFormat(*u.Format)
	}
	if u.Background != nil {
		ctx.Doc.SetBackground(*u.Background)
	}
	return nil
}

// Undo implements Command.
func (u *UpdateOutput) Undo(ctx *Context) error {
	ctx.Doc.Output.Size = u.prevSize
	ctx.Doc.Output.FPS = u.prevFPS
	ctx.Doc.Output.Format = u.prevFormat
	ctx.Doc.Timeline.Background = u.prevBackground
	return nil
}
