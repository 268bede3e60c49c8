package storage

import (
	"fmt"
	"html/template"
	"time"
)

// htmlTemplate renders the snapshot for human review. Kept deliberately
// plain: the page is a static artifact served from CI, not an app.
var htmlTemplate = template.Must(template.New("snapshot").Funcs(template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"fmtDuration": func(seconds int) string {
		if seconds <= 0 {
			return ""
		}
		h := seconds / 3600
		m := (seconds % 3600) / 60
		s := seconds % 60
		if h > 0 {
			return fmt.Sprintf("%d:%02d:%02d", h, m, s)
		}
		return fmt.Sprintf("%d:%02d", m, s)
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Latest News Videos</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4em 0.8em; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
</style>
</head>
<body>
<h1>Latest News Videos</h1>
<p>{{len .Videos}} videos, generated {{fmtTime .GeneratedAt}}</p>
<table>
<tr><th>Title</th><th>Channel</th><th>Published</th><th>Duration</th></tr>
{{range .Videos}}<tr>
<td><a href="{{.URL}}">{{.Title}}</a></td>
<td>{{.ChannelTitle}}</td>
<td>{{fmtTime .PublishedAt}}</td>
<td>{{fmtDuration .DurationSeconds}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

// htmlPage is the data passed to the snapshot template.
type htmlPage struct {
	Videos      []Video
	GeneratedAt time.Time
}

// writeHTML renders the companion HTML artifact next to the JSON snapshot.
func (s *SnapshotStore) writeHTML(videos []Video) error {
	path := s.Path(HTMLFile)
	w, err := NewAtomicWriter("render", path)
	if err != nil {
		return err
	}
	page := htmlPage{Videos: videos, GeneratedAt: time.Now()}
	if err := htmlTemplate.Execute(w, page); err != nil {
		w.Abort()
		return &StorageError{Op: "render", Path: path, Err: err}
	}
	return w.Commit()
}
