// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views renders the HTML pages of CruiseTracker.

Every page is an html/template file under templates/pages, executed inside
templates/layout.html with the partials available, and exposed as a
templ.Component so handlers render it with Component.Render(ctx, w).
*/
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/cruisetracker/cruisetracker/assets/components/fragments"
	"codeberg.org/cruisetracker/cruisetracker/core/chart"
	tmpl "codeberg.org/cruisetracker/cruisetracker/server/template"
	"codeberg.org/cruisetracker/cruisetracker/server/template/commondata"
)

//go:embed templates
var templateFS embed.FS

// Page is the value every template is executed with.
type Page struct {
	Common commondata.PageCommonData
	Data   any
}

var funcs = template.FuncMap{
	"price":       tmpl.FormatPrice,
	"amount":      tmpl.FormatAmount,
	"date":        tmpl.FormatDate,
	"duration":    tmpl.FormatDuration,
	"orMissing":   tmpl.OrMissing,
	"naturalTime": tmpl.NaturalTime,
	"withQuery":   tmpl.WithQuery,
	"toggleQuery": tmpl.ToggleQuery,
	"color":       chart.ColorFor,
	"dict":        tmpl.Dict,
}

var pages = parsePages(
	"index",
	"cruises",
	"cruise",
	"graph",
	"about",
	"error",
	"block",
)

func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html"))

	parsed := make(map[string]*template.Template, len(names))

	for _, name := range names {
		parsed[name] = template.Must(template.Must(base.Clone()).
			ParseFS(templateFS, "templates/pages/"+name+".html"))
	}

	return parsed
}

// render wraps the named page as a component. The layout data is read from
// the request context carried by ctx at render time.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		page, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}

		return templ.FromGoHTML(page, Page{Common: fragments.CommonData(ctx), Data: data}).Render(ctx, w)
	})
}
