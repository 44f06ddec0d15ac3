// Package prefs provides typed access to the editor's GUI preferences,
// stored in the fyne application preferences.
package prefs

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

const (
	keyLastDir      = "lastDirectory"
	keyLastPlan     = "lastPlan"
	keySnap         = "snap"
	keyActiveSymbol = "activeSymbol"
	keyDimsVisible  = "dimsVisible"
)

// Prefs stores the editor's preferences.
type Prefs struct {
	store fyne.Preferences
}

// New wraps a preferences store, usually fyne.App.Preferences().
func New(store fyne.Preferences) *Prefs {
	return &Prefs{store: store}
}

// LastDir returns the directory of the last opened or saved file, or "".
func (p *Prefs) LastDir() string {
	return p.store.String(keyLastDir)
}

// LastDirURI returns LastDir as a listable location for file dialogs, or
// nil if unset or no longer listable.
func (p *Prefs) LastDirURI() fyne.ListableURI {
	dir := p.LastDir()
	if dir == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return listable
}

// SetLastDir saves the directory of filePath.
func (p *Prefs) SetLastDir(filePath string) {
	p.store.SetString(keyLastDir, filepath.Dir(filePath))
}

// LastPlan returns the last opened or saved plan file, or "".
func (p *Prefs) LastPlan() string {
	return p.store.String(keyLastPlan)
}

// SetLastPlan stores path as the last plan and remembers its directory.
func (p *Prefs) SetLastPlan(path string) {
	p.store.SetString(keyLastPlan, path)
	p.SetLastDir(path)
}

// Snap returns the stored grid step, or fallback if not set.
func (p *Prefs) Snap(fallback float64) float64 {
	return p.store.FloatWithFallback(keySnap, fallback)
}

// SetSnap stores the grid step.
func (p *Prefs) SetSnap(step float64) {
	p.store.SetFloat(keySnap, step)
}

// ActiveSymbol returns the stored symbol type id, or fallback.
func (p *Prefs) ActiveSymbol(fallback string) string {
	return p.store.StringWithFallback(keyActiveSymbol, fallback)
}

// SetActiveSymbol stores the symbol type id.
func (p *Prefs) SetActiveSymbol(id string) {
	p.store.SetString(keyActiveSymbol, id)
}

// DimsVisible returns whether the dimensions layer was left visible.
func (p *Prefs) DimsVisible() bool {
	return p.store.Bool(keyDimsVisible)
}

// SetDimsVisible stores the dimensions layer visibility.
func (p *Prefs) SetDimsVisible(visible bool) {
	p.store.SetBool(keyDimsVisible, visible)
}
