package handlers

import (
	"embed"
	"html/template"

	"github.com/griesmnr/flash-cards/internal/viewer"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templatesFS embed.FS

// cardPolicy permits the light formatting card authors use (emphasis,
// line breaks, ruby annotations) and strips everything else.
var cardPolicy = bluemonday.UGCPolicy().
	AllowElements("ruby", "rt", "rp")

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
}

type pageData struct {
	View    viewer.View
	Front   template.HTML
	Fields  []pageField
	Toggles []viewer.FieldToggle
}

type pageField struct {
	Label   string
	Value   template.HTML
	Heading bool
}

func sanitize(s string) template.HTML {
	return template.HTML(cardPolicy.Sanitize(s))
}

func newPageData(v viewer.View) pageData {
	d := pageData{View: v, Toggles: v.Toggles}
	if v.Card == nil {
		return d
	}
	d.Front = sanitize(v.Card.Front)
	for _, f := range v.Card.Fields {
		d.Fields = append(d.Fields, pageField{Label: f.Label, Value: sanitize(f.Value), Heading: f.Heading})
	}
	return d
}
