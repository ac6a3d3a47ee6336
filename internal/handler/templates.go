package handler

import (
	"html/template"
	"net/http"
)

type loginPageData struct {
	Flashes   []string
	Error     string
	Username  string
	CSRFField template.HTML
}

type uploadPageData struct {
	User      string
	MaxBytes  int64
	Accept    string
	CSRFField template.HTML
}

func (h *Handler) render(w http.ResponseWriter, tmpl *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		h.log.WithError(err).WithField("template", tmpl.Name()).Error("Failed to render template")
	}
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Log in</title>
</head>
<body>
<h1>Log in</h1>
{{range .Flashes}}<p class="flash">{{.}}</p>
{{end}}{{if .Error}}<p class="error">{{.Error}}</p>
{{end}}<form method="post" action="/login">
{{.CSRFField}}
<label>Username <input type="text" name="username" value="{{.Username}}" required autofocus></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Log in</button>
</form>
</body>
</html>
`))

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Upload</title>
</head>
<body>
<h1>Upload media</h1>
<p>Signed in as {{.User}}. <a href="/logout">Log out</a></p>
<form method="post" action="/upload" enctype="multipart/form-data">
{{.CSRFField}}
<input type="file" name="file" accept="{{.Accept}}" required>
<p>Maximum size: {{.MaxBytes}} bytes</p>
<button type="submit">Upload</button>
</form>
</body>
</html>
`))
