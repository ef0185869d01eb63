package server

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/chat"
	"github.com/cchalm/groq-multitool/internal/summarize"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Groq Multi-Tool</title></head>
<body>
<h1>🚀 Groq Multi-Tool</h1>
<p>Three small tools on top of a hosted language model.</p>
<ul>
  <li><strong>💬 Chatbot</strong>: <code>POST /api/chat</code> with <code>{"message", "settings"}</code>.
    Moods: {{range $i, $m := .Moods}}{{if $i}}, {{end}}{{$m}}{{end}}.
    Clear with <code>POST /api/chat/clear</code>, download with <code>GET /api/chat/export?format=text|json</code>.</li>
  <li><strong>📝 Summarizer</strong>: <code>POST /api/summarize</code> with text or an uploaded .txt/.pdf <code>file</code>.
    Lengths: {{range $i, $l := .Lengths}}{{if $i}}, {{end}}{{$l}}{{end}}.
    Tones: {{range $i, $t := .Tones}}{{if $i}}, {{end}}{{$t}}{{end}}.
    Formats: {{range $i, $f := .Formats}}{{if $i}}, {{end}}{{$f}}{{end}}.</li>
  <li><strong>🧾 Extractor</strong>: <code>POST /api/extract</code> with text or a file and a comma-separated <code>fields</code> list.</li>
</ul>
<p>Add <code>?download=1</code> to the summarizer or extractor to receive the result as a file.</p>
</body>
</html>
`))

type indexData struct {
	Moods   []chat.Mood
	Lengths []summarize.Length
	Tones   []summarize.Tone
	Formats []summarize.Format
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, indexData{
		Moods:   chat.Moods,
		Lengths: summarize.Lengths,
		Tones:   summarize.Tones,
		Formats: summarize.Formats,
	})
	if err != nil {
		s.logger.Warn("Failed to render index", zap.Error(err))
	}
}
