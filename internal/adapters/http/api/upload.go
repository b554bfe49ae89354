// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/okian/podium/internal/adapters/render"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// defaultMaxUploadBytes caps upload size when no override is given.
const defaultMaxUploadBytes = 16 << 20 // 16 MiB

// uploadPage is the minimal upload-and-view UI.
var uploadPage = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html>
<head><title>podium</title></head>
<body>
<h1>Competition results</h1>
<form method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".csv">
  <input type="submit" value="Build leaderboards">
</form>
{{if .Error}}<p style="color:red">{{.Error}}</p>{{end}}
{{if .Output}}<pre>{{.Output}}</pre>{{end}}
</body>
</html>
`))

type uploadView struct {
	Error  string
	Output string
}

// UploadHandler serves the upload form and runs the pipeline on
// submitted files.
type UploadHandler struct {
	deps     Dependencies
	maxBytes int64
	console  *render.Console
	logger   logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps Dependencies, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadHandler{
		deps:     deps,
		maxBytes: maxBytes,
		console:  render.NewConsole(render.WithTopN(deps.TopN())),
		logger:   logger.Named("api"),
	}
}

// HandleUpload handles GET / (form) and POST / (run the pipeline and
// show its output).
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.renderPage(w, uploadView{})
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *UploadHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	f, header, err := r.FormFile("file")
	if err != nil {
		metrics.RecordUploadError()
		h.renderPage(w, uploadView{Error: "no file selected"})
		return
	}
	defer func() { _ = f.Close() }()

	run, err := h.deps.Run(ctx, header.Filename, f)
	if err != nil {
		metrics.RecordUploadError()
		h.logger.Warn(ctx, "upload rejected",
			logger.String("file", header.Filename),
			logger.Error(err),
		)
		h.renderPage(w, uploadView{Error: err.Error()})
		return
	}
	metrics.RecordUpload()

	var out bytes.Buffer
	_ = h.console.Leaderboards(&out, run.Boards)
	h.renderPage(w, uploadView{Output: out.String()})
}

func (h *UploadHandler) renderPage(w http.ResponseWriter, view uploadView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = uploadPage.Execute(w, view)
}
