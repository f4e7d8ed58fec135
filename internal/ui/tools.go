package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"LocalNotes/internal/export"
	"LocalNotes/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Palette is the set of swatches offered next to the custom colour picker.
var Palette = []string{"#000000", "#ff0000", "#00ff00", "#0000ff", "#ffff00"}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(export.Color(s.Hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// Toolbar holds the controls that drive a board. update keeps them in step
// with the board after every change.
type Toolbar struct {
	app *App

	pen, eraser *widget.Button
	undo, redo  *widget.Button
	sizes       []*widget.Button
	current     *canvas.Rectangle
	pages       *widget.Select

	// syncing suppresses the page select callback while update rewrites it.
	syncing bool
}

func newToolbar(a *App) *Toolbar {
	t := &Toolbar{app: a}
	b := a.board

	t.pen = widget.NewButtonWithIcon("Pen", theme.DocumentCreateIcon(), func() { b.SetTool(state.ToolPen) })
	t.eraser = widget.NewButtonWithIcon("Eraser", theme.DeleteIcon(), func() { b.SetTool(state.ToolEraser) })
	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { b.Undo() })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { b.Redo() })

	for _, size := range state.BrushSizes {
		btn := widget.NewButton(strconv.FormatFloat(size, 'f', -1, 64), func() { b.SetBrushSize(size) })
		t.sizes = append(t.sizes, btn)
	}

	t.current = canvas.NewRectangle(export.Color(b.Color()))
	t.current.SetMinSize(fyne.NewSize(28, 28))

	t.pages = widget.NewSelect(nil, func(selected string) {
		if t.syncing {
			return
		}
		for i, name := range t.pages.Options {
			if name == selected {
				b.SwitchPage(i)
				return
			}
		}
	})

	t.update(b.Snapshot())
	return t
}

// Object assembles the toolbar. Viewers only get page navigation and
// export.
func (t *Toolbar) Object() fyne.CanvasObject {
	a := t.app
	addPage := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		a.board.SwitchPage(a.board.AppendPage())
	})
	files := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveDocument),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openDocument),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), a.exportPDF),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), a.exportPNG),
	)
	if a.opts.ReadOnly {
		files = widget.NewToolbar(
			widget.NewToolbarAction(theme.DocumentPrintIcon(), a.exportPDF),
			widget.NewToolbarAction(theme.MediaPhotoIcon(), a.exportPNG),
		)
		return container.NewHBox(widget.NewLabel("Page:"), t.pages, widget.NewSeparator(), files, layout.NewSpacer())
	}

	swatches := container.NewHBox()
	for _, hex := range Palette {
		swatches.Add(newColorSwatch(hex, func(hex string) { a.board.SetColor(hex) }))
	}
	custom := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), a.pickColor)

	sizes := container.NewHBox()
	for _, btn := range t.sizes {
		sizes.Add(btn)
	}

	return container.NewHBox(
		t.pen, t.eraser,
		widget.NewSeparator(),
		t.current, swatches, custom,
		widget.NewSeparator(),
		widget.NewLabel("Size:"), sizes,
		widget.NewSeparator(),
		t.undo, t.redo,
		widget.NewSeparator(),
		widget.NewLabel("Page:"), t.pages, addPage,
		widget.NewSeparator(),
		files,
		layout.NewSpacer(),
	)
}

func (t *Toolbar) update(snap state.Snapshot) {
	highlight(t.pen, snap.Tool == state.ToolPen)
	highlight(t.eraser, snap.Tool == state.ToolEraser)
	for i, btn := range t.sizes {
		highlight(btn, state.BrushSizes[i] == snap.BrushSize)
	}
	setEnabled(t.undo, snap.CanUndo)
	setEnabled(t.redo, snap.CanRedo)

	t.current.FillColor = export.Color(snap.Color)
	t.current.Refresh()

	names := make([]string, snap.Pages.Len())
	for i := range names {
		names[i] = fmt.Sprintf("Page %d", i+1)
	}
	t.syncing = true
	t.pages.SetOptions(names)
	t.pages.SetSelectedIndex(snap.Active)
	t.syncing = false
}

func highlight(btn *widget.Button, on bool) {
	want := widget.MediumImportance
	if on {
		want = widget.HighImportance
	}
	if btn.Importance != want {
		btn.Importance = want
		btn.Refresh()
	}
}

func setEnabled(btn *widget.Button, on bool) {
	if on {
		btn.Enable()
	} else {
		btn.Disable()
	}
}

func (a *App) pickColor() {
	picker := dialog.NewColorPicker("Pen colour", "Choose a colour", func(c color.Color) {
		a.board.SetColor(export.Hex(c))
	}, a.window)
	picker.Advanced = true
	picker.Show()
}
