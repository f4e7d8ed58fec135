package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"LocalNotes/internal/document"
	"LocalNotes/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

var jsonFilter = storage.NewExtensionFileFilter([]string{".json"})

func (a *App) saveDocument() {
	name := a.fileName
	if name == "" {
		name = document.DefaultName(time.Now())
	}
	a.saveFile(name, jsonFilter, func(w io.Writer) error {
		return document.Encode(w, a.board.Document())
	}, func(uri fyne.URI) {
		a.setFileName(uri.Name())
		a.SetStatus("Saved " + uri.Name())
	})
}

func (a *App) openDocument() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()

		pages, err := document.Decode(r)
		if err != nil {
			a.logger.Warn("rejected document", "file", r.URI().Name(), "error", err)
			dialog.ShowError(fmt.Errorf("invalid file format: %w", err), a.window)
			return
		}
		if err := a.board.LoadDocument(pages); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setFileName(r.URI().Name())
		a.SetStatus(fmt.Sprintf("Opened %s (%d pages)", r.URI().Name(), pages.Len()))
	}, a.window)
	d.SetFilter(jsonFilter)
	d.Show()
}

func (a *App) exportPDF() {
	name := strings.TrimSuffix(document.DefaultName(time.Now()), ".json") + ".pdf"
	a.saveFile(name, storage.NewExtensionFileFilter([]string{".pdf"}), func(w io.Writer) error {
		return export.PDF(w, a.board.Document(), a.exportOptions())
	}, func(uri fyne.URI) {
		a.SetStatus("Exported " + uri.Name())
	})
}

func (a *App) exportPNG() {
	active := a.board.ActivePage()
	name := fmt.Sprintf("%s_page%d.png", strings.TrimSuffix(document.DefaultName(time.Now()), ".json"), active+1)
	a.saveFile(name, storage.NewExtensionFileFilter([]string{".png"}), func(w io.Writer) error {
		return export.PNG(w, a.board.Page(active), a.exportOptions())
	}, func(uri fyne.URI) {
		a.SetStatus("Exported " + uri.Name())
	})
}

func (a *App) saveFile(name string, filter storage.FileFilter, write func(io.Writer) error, done func(fyne.URI)) {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if w == nil {
			return
		}
		if err := write(w); err != nil {
			w.Close()
			a.logger.Error("write failed", "file", w.URI().Name(), "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		if err := w.Close(); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		done(w.URI())
	}, a.window)
	d.SetFileName(name)
	d.SetFilter(filter)
	d.Show()
}
