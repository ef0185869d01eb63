package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cchalm/groq-multitool/internal/ai"
	"github.com/cchalm/groq-multitool/internal/chat"
	"github.com/cchalm/groq-multitool/internal/document"
	"github.com/cchalm/groq-multitool/internal/export"
	"github.com/cchalm/groq-multitool/internal/extract"
	"github.com/cchalm/groq-multitool/internal/summarize"
)

type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

type chatSettings struct {
	SystemRole  string   `json:"system_role"`
	UserName    string   `json:"user_name"`
	Mood        string   `json:"mood"`
	FewShot     *bool    `json:"few_shot"`
	Temperature *float64 `json:"temperature"`
}

// toSettings overlays the fields the client sent on the default chat settings
func (cs chatSettings) toSettings() chat.Settings {
	s := chat.DefaultSettings()
	if cs.SystemRole != "" {
		s.SystemRole = cs.SystemRole
	}
	s.UserName = strings.TrimSpace(cs.UserName)
	s.Mood = chat.ParseMood(cs.Mood)
	if cs.FewShot != nil {
		s.FewShot = *cs.FewShot
	}
	if cs.Temperature != nil {
		s.Temperature = *cs.Temperature
	}
	return s
}

type chatRequest struct {
	Message  string       `json:"message"`
	Settings chatSettings `json:"settings"`
}

type chatResponse struct {
	Reply   string       `json:"reply"`
	History []ai.Message `json:"history"`
}

type summarizeResponse struct {
	Summary   string `json:"summary"`
	Truncated bool   `json:"truncated"`
}

type extractResponse struct {
	Data    json.RawMessage `json:"data"`
	Missing []string        `json:"missing,omitempty"`
	Extra   []string        `json:"extra,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	// A session is only kept once a turn has been logged, so rejected or failed requests leave nothing behind
	e := s.existingSession(r)
	isNew := e == nil
	if isNew {
		e = s.sessions.pending()
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	reply, err := e.session.Send(r.Context(), req.Settings.toSettings(), req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if isNew {
		s.sessions.register(e)
		setSessionCookie(w, e.session.ID)
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:   reply,
		History: e.session.Conversation().Messages(),
	})
}

// POST /api/chat/clear
func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	if e := s.existingSession(r); e != nil {
		e.mu.Lock()
		e.session.Clear()
		e.mu.Unlock()
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/chat/export?format=text|json
func (s *Server) handleChatExport(w http.ResponseWriter, r *http.Request) {
	format := chat.ExportText
	if f := r.URL.Query().Get("format"); f != "" {
		var err error
		if format, err = chat.ParseExportFormat(f); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	var a export.Artifact
	var err error
	if e := s.existingSession(r); e != nil {
		e.mu.Lock()
		a, err = e.session.Conversation().Artifact(format)
		e.mu.Unlock()
	} else {
		// No session yet: export an empty conversation
		a, err = (&chat.Conversation{}).Artifact(format)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, a)
}

// POST /api/summarize, JSON or multipart with a "file" part. ?download=1 returns summary.txt.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	form, err := s.readForm(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	temperature := summarize.DefaultTemperature
	if form.Temperature != nil {
		temperature = *form.Temperature
	}
	// An omitted length means the first choice offered, Short; an unrecognized one falls back to Detailed
	if form.Length == "" {
		form.Length = string(summarize.LengthShort)
	}
	res, err := s.summarizer.Summarize(r.Context(), summarize.Request{
		Text:        form.Text,
		Length:      summarize.ParseLength(form.Length),
		Tone:        summarize.ParseTone(form.Tone),
		Format:      summarize.ParseFormat(form.Format),
		Temperature: temperature,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if wantsDownload(r) {
		s.writeArtifact(w, res.Artifact())
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: res.Summary, Truncated: res.Truncated})
}

// POST /api/extract, JSON or multipart with a "file" part. ?download=1 returns extracted_data.json.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	form, err := s.readForm(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	fields := extract.ParseFields(form.Fields)
	res, err := s.extractor.Extract(r.Context(), extract.Request{Text: form.Text, Fields: fields})
	var invalid *extract.InvalidJSONError
	if errors.As(err, &invalid) {
		// The raw reply is shown in place of the structure
		writeJSON(w, http.StatusOK, errorResponse{Error: "Model returned invalid JSON", Raw: invalid.Text})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	if wantsDownload(r) {
		a, err := res.Artifact()
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeArtifact(w, a)
		return
	}
	c := res.Conformance(fields)
	writeJSON(w, http.StatusOK, extractResponse{Data: res.Raw, Missing: c.Missing, Extra: c.Extra})
}

// toolForm is the union of the summarizer and extractor inputs
type toolForm struct {
	Text        string   `json:"text"`
	Length      string   `json:"length"`
	Tone        string   `json:"tone"`
	Format      string   `json:"format"`
	Temperature *float64 `json:"temperature"`
	Fields      string   `json:"fields"`
}

// readForm decodes a JSON body, or a multipart form whose optional "file" part replaces the text field
func (s *Server) readForm(r *http.Request) (toolForm, error) {
	var form toolForm

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return toolForm{}, fmt.Errorf("%w: invalid JSON body", errBadRequest)
		}
		return form, nil
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return toolForm{}, fmt.Errorf("%w: invalid multipart form: %v", errBadRequest, err)
	}
	form.Text = r.FormValue("text")
	form.Length = r.FormValue("length")
	form.Tone = r.FormValue("tone")
	form.Format = r.FormValue("format")
	form.Fields = r.FormValue("fields")
	if t := r.FormValue("temperature"); t != "" {
		v, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return toolForm{}, fmt.Errorf("%w: invalid temperature %q", errBadRequest, t)
		}
		form.Temperature = &v
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return toolForm{}, fmt.Errorf("%w: failed to read upload: %v", errBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return toolForm{}, fmt.Errorf("failed to read upload: %w", err)
	}
	text, err := document.Load(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return toolForm{}, err
	}
	form.Text = text
	return form, nil
}

var errBadRequest = errors.New("bad request")

func wantsDownload(r *http.Request) bool {
	switch r.URL.Query().Get("download") {
	case "1", "true":
		return true
	default:
		return false
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ai.ErrEmptyInput), errors.Is(err, ai.ErrInvalidRequest), errors.Is(err, errBadRequest),
		errors.Is(err, document.ErrInvalidEncoding):
		return http.StatusBadRequest
	case errors.Is(err, document.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ai.ErrRemote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeArtifact(w http.ResponseWriter, a export.Artifact) {
	w.Header().Set("Content-Type", a.ContentType())
	w.Header().Set("Content-Disposition", a.ContentDisposition())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Data); err != nil {
		s.logger.Warn("Failed to write download", zap.String("filename", a.Filename), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
