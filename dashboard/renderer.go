package dashboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"html/template"
	"io"

	"vehicle-dashboard/charts"
	"vehicle-dashboard/models"
	"vehicle-dashboard/services"
	"vehicle-dashboard/utils"
)

// PanelView is the rendered state of one panel.
type PanelView struct {
	Visible bool                 `json:"visible"`
	Title   string               `json:"title"`
	Rows    int                  `json:"rows"`
	Empty   bool                 `json:"empty"`
	Image   template.URL         `json:"image,omitempty"`
	Legend  []charts.LegendEntry `json:"legend,omitempty"`
}

// View is everything the page shows for one set of controls.
type View struct {
	Controls  Controls  `json:"controls"`
	Scatter   PanelView `json:"scatter"`
	Histogram PanelView `json:"histogram"`
}

// Renderer re-runs filter-and-render against the immutable dataset. It holds
// no per-user state, so a single instance serves every request.
type Renderer struct {
	listings []*models.Listing
	opts     charts.Options
	logger   *utils.Logger
}

// NewRenderer binds a renderer to the cleaned dataset.
func NewRenderer(ds *models.Dataset, opts charts.Options, logger *utils.Logger) *Renderer {
	return &Renderer{listings: ds.Listings, opts: opts, logger: logger}
}

// Render produces both panels for c. Hidden panels are not computed.
func (r *Renderer) Render(c Controls) (*View, error) {
	v := &View{Controls: c}

	if c.ShowScatter {
		p, err := r.scatterPanel(c)
		if err != nil {
			return nil, err
		}
		v.Scatter = p
	}
	if c.ShowHistogram {
		p, err := r.histogramPanel(c)
		if err != nil {
			return nil, err
		}
		v.Histogram = p
	}

	r.logger.Debug("[dashboard] Rendered scatter=%v (%d rows) histogram=%v (%d rows)",
		c.ShowScatter, v.Scatter.Rows, c.ShowHistogram, v.Histogram.Rows)
	return v, nil
}

// WriteScatter renders only the scatter chart, regardless of visibility.
func (r *Renderer) WriteScatter(w io.Writer, c Controls, format charts.Format) error {
	s, err := charts.BuildScatter(services.FilterByYear(r.listings, c.ScatterYears), c.ScatterX)
	if err != nil {
		return err
	}
	return charts.RenderScatter(w, s, r.withFormat(format))
}

// WriteHistogram renders only the histogram chart, regardless of visibility.
func (r *Renderer) WriteHistogram(w io.Writer, c Controls, format charts.Format) error {
	h, err := charts.BuildHistogram(services.FilterByYear(r.listings, c.HistogramYears), c.HistogramColor)
	if err != nil {
		return err
	}
	return charts.RenderHistogram(w, h, r.withFormat(format))
}

func (r *Renderer) scatterPanel(c Controls) (PanelView, error) {
	filtered := services.FilterByYear(r.listings, c.ScatterYears)
	s, err := charts.BuildScatter(filtered, c.ScatterX)
	if err != nil {
		return PanelView{}, err
	}

	p := PanelView{Visible: true, Title: s.Title, Rows: len(filtered), Legend: s.Legend()}
	var buf bytes.Buffer
	err = charts.RenderScatter(&buf, s, r.withFormat(charts.SVG))
	return finishPanel(p, &buf, err)
}

func (r *Renderer) histogramPanel(c Controls) (PanelView, error) {
	filtered := services.FilterByYear(r.listings, c.HistogramYears)
	h, err := charts.BuildHistogram(filtered, c.HistogramColor)
	if err != nil {
		return PanelView{}, err
	}

	p := PanelView{Visible: true, Title: h.Title, Rows: len(filtered), Legend: h.Legend()}
	var buf bytes.Buffer
	err = charts.RenderHistogram(&buf, h, r.withFormat(charts.SVG))
	return finishPanel(p, &buf, err)
}

func finishPanel(p PanelView, buf *bytes.Buffer, err error) (PanelView, error) {
	if errors.Is(err, charts.ErrNoData) {
		p.Empty = true
		p.Legend = nil
		return p, nil
	}
	if err != nil {
		return PanelView{}, err
	}
	p.Image = svgDataURI(buf.Bytes())
	return p, nil
}

func (r *Renderer) withFormat(f charts.Format) charts.Options {
	o := r.opts
	o.Format = f
	return o
}

// svgDataURI embeds an SVG we generated ourselves as an <img> source.
func svgDataURI(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}
