package server

import (
	"html/template"
	"net/http"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} · {{end}}mapvis</title>
<style>
body { font-family: sans-serif; margin: 16px; color: #222; }
img { display: block; max-width: 100%; border: 1px solid #ddd; }
form { display: inline; }
button { margin: 2px; padding: 2px 6px; border: 1px solid #bbb; background: #fff; cursor: pointer; }
button.selected { background: #2a9d8f; border-color: #2a9d8f; color: #fff; }
.panel { margin: 8px 0; }
</style>
</head>
<body>
<h1>{{if .Title}}{{.Title}}{{else}}mapvis{{end}}</h1>
<img src="/display.svg?v={{.Version}}" alt="display">
{{range .Panels}}
<div class="panel"><strong>Panel {{.Panel}} · {{.Name}}</strong><br>
{{$p := .}}{{range .Dates}}<form method="post" action="/click"><input type="hidden" name="panel" value="{{$p.Panel}}"><input type="hidden" name="date" value="{{.}}"><button{{if eq . $p.Selected}} class="selected"{{end}}>{{.}}</button></form>{{end}}
</div>
{{end}}
</body>
</html>
`))

type pageData struct {
	Title   string
	Version uint64
	Panels  []Panel
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:   s.display.Scene.Name,
		Version: s.display.Root.Version(),
		Panels:  s.panels(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.logger.Error("render page", "error", err)
	}
}
