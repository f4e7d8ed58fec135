// Package ui is the Fyne desktop front end for a board.
package ui

import (
	"fmt"
	"log/slog"

	"LocalNotes/internal/export"
	"LocalNotes/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.localnotes.app"

type Options struct {
	Title string
	// ReadOnly turns the window into a viewer of a shared board.
	ReadOnly   bool
	ShareLink  string
	Background string
	PageWidth  float64
	PageHeight float64
	Logger     *slog.Logger
	// App is used instead of creating a new Fyne application when set.
	App fyne.App
}

type App struct {
	fyne    fyne.App
	window  fyne.Window
	board   *state.Board
	canvas  *BoardWidget
	toolbar *Toolbar
	status  *widget.Label
	opts    Options
	logger  *slog.Logger

	fileName string
}

// New builds the main window around board. The window follows the board
// through OnChange, so board must only be mutated on the UI goroutine
// (use Do from other goroutines).
func New(board *state.Board, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "LocalNotes"
	}
	if opts.Background == "" {
		opts.Background = export.DefaultBackground
	}
	if opts.PageWidth <= 0 {
		opts.PageWidth = export.PageWidth
	}
	if opts.PageHeight <= 0 {
		opts.PageHeight = export.PageHeight
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fyneApp := opts.App
	if fyneApp == nil {
		fyneApp = app.NewWithID(appID)
	}

	a := &App{
		fyne:   fyneApp,
		board:  board,
		opts:   opts,
		logger: logger,
		status: widget.NewLabel(""),
	}
	a.window = fyneApp.NewWindow(opts.Title)
	a.window.Resize(fyne.NewSize(1024, 768))

	a.canvas = NewBoardWidget(board, opts)
	a.toolbar = newToolbar(a)
	board.OnChange(func(snap state.Snapshot) {
		a.toolbar.update(snap)
		a.canvas.Refresh()
	})

	bottom := container.NewHBox(a.status)
	if opts.ShareLink != "" {
		link := opts.ShareLink
		bottom.Add(widget.NewButtonWithIcon("Copy link", theme.ContentCopyIcon(), func() {
			a.fyne.Clipboard().SetContent(link)
			a.SetStatus("Copied " + link)
		}))
		a.status.SetText("Sharing at " + link)
	}
	if opts.ReadOnly {
		a.status.SetText("Viewing a shared board")
	}

	content := container.NewBorder(a.toolbar.Object(), bottom, nil, nil, container.NewScroll(a.canvas))
	a.window.SetContent(content)
	if !opts.ReadOnly {
		a.addShortcuts()
	}
	return a
}

func (a *App) addShortcuts() {
	c := a.window.Canvas()
	on := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	on(fyne.KeyZ, fyne.KeyModifierShortcutDefault, func() { a.board.Undo() })
	on(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, func() { a.board.Redo() })
	on(fyne.KeyY, fyne.KeyModifierShortcutDefault, func() { a.board.Redo() })
	on(fyne.KeyS, fyne.KeyModifierShortcutDefault, a.saveDocument)
	on(fyne.KeyO, fyne.KeyModifierShortcutDefault, a.openDocument)
	on(fyne.KeyP, fyne.KeyModifierShortcutDefault, func() { a.board.SetTool(state.ToolPen) })
	on(fyne.KeyE, fyne.KeyModifierShortcutDefault, func() { a.board.SetTool(state.ToolEraser) })
}

// Do runs fn on the UI goroutine.
func (a *App) Do(fn func()) {
	fyne.Do(fn)
}

// SetStatus may be called from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() { a.status.SetText(text) })
}

// ShowRemote replaces the board with a document received from a share host,
// keeping the viewer on its current page when that page still exists.
func (a *App) ShowRemote(pages state.Pages) {
	a.Do(func() {
		page := a.board.ActivePage()
		if err := a.board.LoadDocument(pages); err != nil {
			a.logger.Warn("ignoring shared document", "error", err)
			return
		}
		if page < pages.Len() {
			a.board.SwitchPage(page)
		}
	})
}

// OnStopped registers fn to run after the last window closes.
func (a *App) OnStopped(fn func()) {
	a.fyne.Lifecycle().SetOnStopped(fn)
}

// Quit may be called from any goroutine.
func (a *App) Quit() {
	fyne.Do(a.fyne.Quit)
}

// Run shows the window and blocks until the application quits.
func (a *App) Run() {
	a.window.ShowAndRun()
}

func (a *App) exportOptions() export.Options {
	return export.Options{
		Width:      a.opts.PageWidth,
		Height:     a.opts.PageHeight,
		Background: a.opts.Background,
	}
}

func (a *App) setFileName(name string) {
	a.fileName = name
	a.window.SetTitle(fmt.Sprintf("%s - %s", a.opts.Title, name))
}
