package dashboard

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
	"vehicle-dashboard/storage"
	"vehicle-dashboard/utils"
)

//go:embed templates/index.html
var templateFS embed.FS

// Server exposes the dashboard page, chart images, the websocket control
// channel and a few read-only data endpoints.
type Server struct {
	dataset  *models.Dataset
	report   *models.InsightReport
	renderer *Renderer
	logger   *utils.Logger
	page     *template.Template
}

// pageData feeds the index template.
type pageData struct {
	View             *View
	ScatterOptions   []string
	HistogramOptions []string
	MinYear, MaxYear int
	Dataset          *models.Dataset
	Error            string
}

// NewServer parses the page template and wires the handlers.
func NewServer(ds *models.Dataset, report *models.InsightReport, renderer *Renderer, logger *utils.Logger) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{dataset: ds, report: report, renderer: renderer, logger: logger, page: page}, nil
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebsocket)
	mux.HandleFunc("/charts/scatter", s.handleScatterImage)
	mux.HandleFunc("/charts/histogram", s.handleHistogramImage)
	mux.HandleFunc("/export.csv", s.handleExport)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/healthz", s.handleHealth)

	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := pageData{
		ScatterOptions:   charts.ScatterAttributes,
		HistogramOptions: charts.HistogramColors,
		MinYear:          services.MinYear,
		MaxYear:          services.MaxYear,
		Dataset:          s.dataset,
	}

	status := http.StatusOK
	controls, err := ControlsFromQuery(r.URL.Query())
	if err != nil {
		status = http.StatusBadRequest
		data.Error = err.Error()
		controls = DefaultControls()
	}

	view, err := s.renderer.Render(controls)
	if err != nil {
		s.logger.Error("[dashboard] Render failed: %v", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	data.View = view

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("[dashboard] Template execution failed: %v", err)
	}
}

func (s *Server) handleScatterImage(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, s.renderer.WriteScatter)
}

func (s *Server) handleHistogramImage(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, s.renderer.WriteHistogram)
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, write func(io.Writer, Controls, charts.Format) error) {
	controls, err := ControlsFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := charts.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Dataset-Checksum", s.dataset.Checksum)
	if err := write(w, controls, format); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			http.Error(w, "No listings in the selected model-year range", http.StatusNotFound)
			return
		}
		s.logger.Error("[dashboard] Chart render failed: %v", err)
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vehicles_clean.csv"`)
	w.Header().Set("X-Dataset-Checksum", s.dataset.Checksum)

	cw, err := storage.NewCSVWriter(w)
	if err != nil {
		http.Error(w, "Failed to export dataset", http.StatusInternalServerError)
		return
	}
	if err := cw.Write(s.dataset.Listings); err != nil {
		s.logger.Error("[dashboard] CSV export failed: %v", err)
	}
}

// summaryResponse is the /api/summary payload.
type summaryResponse struct {
	Source   string                `json:"source"`
	Checksum string                `json:"checksum"`
	LoadedAt time.Time             `json:"loaded_at"`
	Report   *models.InsightReport `json:"report"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaryResponse{
		Source:   s.dataset.Source,
		Checksum: s.dataset.Checksum,
		LoadedAt: s.dataset.LoadedAt,
		Report:   s.report,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
