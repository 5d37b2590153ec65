package model

// Palette is the persisted set of preset card background colors.
type Palette struct {
	Colors []string `json:"colors"`
}

// DefaultPaletteColors seeds the palette file on first run.
var DefaultPaletteColors = []string{
	"#0F1720", // ink
	"#0A84FF", // blue
	"#1E3A5F", // navy
	"#22363F", // slate
	"#D4AF37", // gold
	"#B87333", // copper
}

// RequiredPaletteColors are appended to any persisted palette that is
// missing them. Gold and copper shipped after the first release, so older
// palette files may lack them.
var RequiredPaletteColors = []string{"#D4AF37", "#B87333"}
