package ui

import (
	"embed"
	"html/template"
	"io"

	"github.com/RMahshie/linkcalc/internal/units"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	View
	PowerUnits     []units.PowerUnit
	DistanceUnits  []units.DistanceUnit
	FrequencyUnits []units.FrequencyUnit
}

// RenderPage writes the calculator page for v.
func RenderPage(w io.Writer, v View) error {
	return pageTemplate.Execute(w, pageData{
		View:           v,
		PowerUnits:     units.PowerUnits,
		DistanceUnits:  units.DistanceUnits,
		FrequencyUnits: units.FrequencyUnits,
	})
}
