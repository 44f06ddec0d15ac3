// Package catalog defines the fixed symbol and layer catalogs of a plan.
package catalog

// SymbolType describes one electrical symbol that can be placed on a plan.
type SymbolType struct {
	ID    string // Stored in Symbol.Type
	Label string // Human readable name
	Glyph string // Single glyph drawn inside the marker circle
	Code  string // Short text drawn when a font lacks the glyph
	Size  int    // Nominal glyph size in the palette
}

var symbols = []SymbolType{
	{ID: "socket", Label: "Socket 16A", Glyph: "⭘", Code: "PC", Size: 28},
	{ID: "switch", Label: "Switch", Glyph: "⎋", Code: "S", Size: 28},
	{ID: "light", Label: "Light fitting", Glyph: "☼", Code: "L", Size: 32},
	{ID: "rj45", Label: "RJ45", Glyph: "⌗", Code: "RJ", Size: 28},
	{ID: "tv", Label: "TV", Glyph: "⌁", Code: "TV", Size: 28},
	{ID: "panel", Label: "Distribution panel", Glyph: "☲", Code: "TD", Size: 34},
	{ID: "socket32", Label: "Socket 32A", Glyph: "◎", Code: "32", Size: 30},
}

// UnknownGlyph is drawn for symbol types missing from the catalog.
const UnknownGlyph = "?"

// Symbols returns the catalog in display order. The slice is a copy.
func Symbols() []SymbolType {
	out := make([]SymbolType, len(symbols))
	copy(out, symbols)
	return out
}

// DefaultSymbol returns the first catalog entry.
func DefaultSymbol() SymbolType {
	return symbols[0]
}

// LookupSymbol finds a symbol type by id.
func LookupSymbol(id string) (SymbolType, bool) {
	for _, s := range symbols {
		if s.ID == id {
			return s, true
		}
	}
	return SymbolType{}, false
}

// Glyph returns the glyph for a symbol type id, or UnknownGlyph.
func Glyph(id string) string {
	if s, ok := LookupSymbol(id); ok {
		return s.Glyph
	}
	return UnknownGlyph
}

// Code returns the text fallback for a symbol type id, or UnknownGlyph.
func Code(id string) string {
	if s, ok := LookupSymbol(id); ok {
		return s.Code
	}
	return UnknownGlyph
}
