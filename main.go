// Package main provides the entry point for the Plan Editor application.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog"

	"plan-editor/internal/app"
	"plan-editor/internal/config"
	"plan-editor/internal/logging"
	"plan-editor/internal/version"
	"plan-editor/ui/mainwindow"
	"plan-editor/ui/prefs"
)

const appID = "io.github.planeditor"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.Setup(cfg.LogLevel, os.Stderr)
	log.Info().Str("version", version.Version).Str("config", config.Used()).Msg("starting plan editor")

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.PlanEditorTheme{})

	state := app.NewSession(cfg, log)
	win, err := mainwindow.New(a, state, prefs.New(a.Preferences()), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create main window")
	}

	setupPlanWatcher(win, state, log)

	if len(os.Args) > 1 {
		win.OpenPlan(os.Args[1])
	}

	win.ShowAndRun()
}

func loadConfig() (config.Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	if err := config.Load(filepath.Join(dir, "plan-editor")); err != nil {
		return config.Config{}, err
	}
	return config.Settings()
}

// setupPlanWatcher offers to reload the open plan when another program
// rewrites it.
func setupPlanWatcher(win *mainwindow.MainWindow, state *app.State, log zerolog.Logger) {
	f := app.NewPlanFollower(2*time.Second, log)
	f.Prompt = func(path string, answer func(bool)) {
		fyne.Do(func() {
			dialog.ShowConfirm("Plan Changed",
				fmt.Sprintf("%s was modified by another program.\nReload it?", filepath.Base(path)),
				answer, win.Window)
		})
	}
	f.Reload = win.OpenPlan
	f.Attach(state)
}
