package router

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/HatiCode/commutemap/pkg/heatmap"
)

// StatusElementID is the id of the element holding the status text.
const StatusElementID = "last-updated"

type pageView struct {
	Title    string
	ChartID  string
	StatusID string
	Chart    template.HTML
	Status   string
	Failed   bool
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-Hant-TW">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #333; }
.chart { max-width: 100%; overflow-x: auto; }
.status { margin-top: 1rem; font-size: 0.9rem; color: #666; }
.status.failed { color: #c0392b; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="chart">{{if .Chart}}{{.Chart}}{{else}}<svg id="{{.ChartID}}" xmlns="http://www.w3.org/2000/svg" width="0" height="0"></svg>{{end}}</div>
<p class="status{{if .Failed}} failed{{end}}">最後更新：<span id="{{.StatusID}}">{{.Status}}</span></p>
</body>
</html>
`))

func handlePage(runner Runner, base heatmap.Config, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := chartSize(r, base)
		if err != nil {
			cfg = base
		}

		res := runner.Run(r.Context(), heatmap.NewSVGRenderer(cfg))

		view := pageView{
			Title:    cfg.Title,
			ChartID:  heatmap.ChartElementID,
			StatusID: StatusElementID,
			Status:   res.Status.Text,
			Failed:   res.Failed(),
		}
		if !res.Failed() {
			// rendered by heatmap.SVGRenderer, which escapes all text
			view.Chart = template.HTML(res.Chart)
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, view); err != nil {
			logger.Error("failed to render page", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if err := writeHTML(w, buf.Bytes()); err != nil {
			logger.Debug("failed to write page", "error", err)
		}
	}
}

func writeHTML(w http.ResponseWriter, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(body)
	return err
}
