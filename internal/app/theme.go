package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"plan-editor/pkg/colorutil"
)

// PlanEditorTheme dresses the widgets in the plan palette: ink text, the
// measurement blue as accent, and the grid tone for separators. Sizes are a
// little tighter than fyne's so the side panel fits next to the canvas.
type PlanEditorTheme struct{}

var _ fyne.Theme = (*PlanEditorTheme)(nil)

// hoverTint is Dim at low alpha.
var hoverTint = color.NRGBA{R: 0x02, G: 0x84, B: 0xC7, A: 0x1F}

func (t *PlanEditorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		if variant == theme.VariantDark {
			return colorutil.DimDraft
		}
		return colorutil.Dim
	case theme.ColorNameHyperlink:
		if variant == theme.VariantDark {
			return colorutil.DimDraft
		}
		return colorutil.DimText
	case theme.ColorNameSelection:
		return colorutil.Selected
	case theme.ColorNameHover:
		return hoverTint
	case theme.ColorNameScrollBar:
		return colorutil.DimDraft
	}
	if variant == theme.VariantDark {
		return theme.DefaultTheme().Color(name, variant)
	}
	switch name {
	case theme.ColorNameForeground:
		return colorutil.Ink
	case theme.ColorNameSeparator, theme.ColorNameInputBorder:
		return colorutil.Grid
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *PlanEditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *PlanEditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *PlanEditorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameScrollBarSmall:
		return 4
	case theme.SizeNameInputRadius, theme.SizeNameSelectionRadius:
		return 2
	default:
		return theme.DefaultTheme().Size(name)
	}
}
