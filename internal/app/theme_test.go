package app

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"

	"plan-editor/pkg/colorutil"
)

func TestPlanEditorThemeColors(t *testing.T) {
	test.NewTempApp(t)
	th := &PlanEditorTheme{}
	light, dark := theme.VariantLight, theme.VariantDark

	assert.Equal(t, colorutil.Ink, th.Color(theme.ColorNameForeground, light))
	assert.Equal(t, colorutil.Dim, th.Color(theme.ColorNamePrimary, light))
	assert.Equal(t, colorutil.Dim, th.Color(theme.ColorNameFocus, light))
	assert.Equal(t, colorutil.DimText, th.Color(theme.ColorNameHyperlink, light))
	assert.Equal(t, colorutil.Grid, th.Color(theme.ColorNameSeparator, light))
	assert.Equal(t, colorutil.Selected, th.Color(theme.ColorNameSelection, light))

	assert.Equal(t, colorutil.DimDraft, th.Color(theme.ColorNamePrimary, dark))
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameForeground, dark),
		th.Color(theme.ColorNameForeground, dark), "dark text stays readable")
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, light),
		th.Color(theme.ColorNameBackground, light))
}

func TestPlanEditorThemeSizes(t *testing.T) {
	th := &PlanEditorTheme{}
	assert.Equal(t, float32(13), th.Size(theme.SizeNameText))
	assert.Equal(t, float32(3), th.Size(theme.SizeNamePadding))
	assert.Equal(t, float32(10), th.Size(theme.SizeNameScrollBar))
	assert.Less(t, th.Size(theme.SizeNameInnerPadding), theme.DefaultTheme().Size(theme.SizeNameInnerPadding))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameHeadingText), th.Size(theme.SizeNameHeadingText))
}
