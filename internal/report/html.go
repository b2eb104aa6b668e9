package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"
)

const htmlReport = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; margin: 2em auto; max-width: 1200px; color: #222; }
h1 { text-align: center; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.3em; }
img { width: 100%; height: auto; border: 1px solid #ddd; }
footer { margin-top: 3em; font-size: 0.8em; color: #888; text-align: center; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Sections}}
<section>
<h2>{{.Title}}</h2>
<img src="data:image/png;base64,{{.Data}}" alt="{{.Title}}">
</section>
{{end}}
<footer>Generated {{.Generated}}</footer>
</body>
</html>
`

type htmlSection struct {
	Title string
	Data  string
}

type htmlData struct {
	Title     string
	Generated string
	Sections  []htmlSection
}

// WriteHTML builds a single static page with every PNG embedded as a
// base64 data URI, so the file stands alone.
func WriteHTML(docTitle string, pages []Page, out string) error {
	if len(pages) == 0 {
		return fmt.Errorf("html %s: no sections", out)
	}

	data := htmlData{
		Title:     docTitle,
		Generated: time.Now().Format("2 January 2006 15:04"),
	}
	for _, page := range pages {
		raw, err := os.ReadFile(page.Image)
		if err != nil {
			return fmt.Errorf("embedding %s: %w", page.Image, err)
		}
		data.Sections = append(data.Sections, htmlSection{
			Title: page.Title,
			Data:  base64.StdEncoding.EncodeToString(raw),
		})
	}

	tmpl, err := template.New("report").Parse(htmlReport)
	if err != nil {
		return fmt.Errorf("parsing report template: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("writing html %s: %w", out, err)
	}
	return nil
}
