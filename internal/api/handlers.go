package api

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/export"
	"github.com/niveshke/esg-explorer/internal/filter"
	"github.com/niveshke/esg-explorer/internal/model"
	"github.com/niveshke/esg-explorer/internal/source"
)

// vocabResponse carries the selection vocabularies the control surface
// needs to populate its widgets.
type vocabResponse struct {
	Years     []int    `json:"years"`
	Sectors   []string `json:"sectors"`
	Regions   []string `json:"regions"`
	Countries []string `json:"countries"`
	Companies []string `json:"companies"`
}

// viewSummary restores the dashboard KPI row: headline stats of a filtered
// view.
type viewSummary struct {
	Rows       int      `json:"rows"`
	Companies  int      `json:"companies"`
	MeanESG    *float64 `json:"mean_esg,omitempty"`
	MedianESG  *float64 `json:"median_esg,omitempty"`
	TopCompany string   `json:"top_company,omitempty"`
}

type viewResponse struct {
	Summary viewSummary    `json:"summary"`
	Records []model.Record `json:"records"`
}

func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, vocabResponse{
		Years:     ds.Years(),
		Sectors:   ds.Sectors(),
		Regions:   ds.Regions(),
		Countries: ds.Countries(),
		Companies: ds.Companies(),
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	view := filter.Apply(ds, spec)
	records := view.Records()
	if records == nil {
		records = []model.Record{} // empty view is a normal, displayable state
	}
	render.JSON(w, r, viewResponse{
		Summary: summarize(view),
		Records: records,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	q := struct {
		Format string `validate:"omitempty,oneof=csv xlsx"`
	}{Format: r.URL.Query().Get("format")}
	if err := s.validate.Struct(&q); err != nil {
		badRequest(w, r, "format must be csv or xlsx")
		return
	}

	view := filter.Apply(ds, spec)
	switch q.Format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="esg_filtered.xlsx"`)
		if err := export.WriteXLSX(w, view); err != nil {
			zap.L().Error("xlsx export failed", zap.Error(err))
		}
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="esg_filtered.csv"`)
		if err := export.WriteCSV(w, view); err != nil {
			zap.L().Error("csv export failed", zap.Error(err))
		}
	}
}

// compareResponse carries up to five company profiles for side-by-side
// comparison.
type compareResponse struct {
	Companies []model.Record `json:"companies"`
	Missing   []string       `json:"missing,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}

	q := struct {
		Companies []string `validate:"min=1,max=5,dive,required"`
	}{Companies: splitParam(r.URL.Query().Get("companies"))}
	if err := s.validate.Struct(&q); err != nil {
		badRequest(w, r, "companies must list between 1 and 5 names")
		return
	}

	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	view := filter.Apply(ds, spec)

	byName := make(map[string]model.Record)
	for _, rec := range view.Records() {
		if _, seen := byName[rec.Company]; !seen {
			byName[rec.Company] = rec
		}
	}

	resp := compareResponse{Companies: []model.Record{}}
	for _, name := range q.Companies {
		if rec, found := byName[name]; found {
			resp.Companies = append(resp.Companies, rec)
		} else {
			resp.Missing = append(resp.Missing, name)
		}
	}
	render.JSON(w, r, resp)
}

// sectorResponse carries the sector focus view: leaders and laggards by
// ESG_total within one sector.
type sectorResponse struct {
	Sector string         `json:"sector"`
	Top    []model.Record `json:"top"`
	Bottom []model.Record `json:"bottom"`
}

func (s *Server) handleSector(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	sector, err := url.PathUnescape(chi.URLParam(r, "sector"))
	if err != nil || sector == "" {
		badRequest(w, r, "sector is required")
		return
	}

	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	spec.Sectors = []string{sector}
	view := filter.Apply(ds, spec)

	ordered := make([]model.Record, view.Len())
	copy(ordered, view.Records())
	sort.SliceStable(ordered, func(a, b int) bool {
		ta, tb := ordered[a].ESGTotal, ordered[b].ESGTotal
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return *ta > *tb
		}
	})

	n := len(ordered)
	top := ordered[:min(10, n)]
	bottom := make([]model.Record, 0, min(10, n))
	for i := n - 1; i >= 0 && len(bottom) < 10; i-- {
		bottom = append(bottom, ordered[i])
	}

	render.JSON(w, r, sectorResponse{Sector: sector, Top: top, Bottom: bottom})
}

// countryAggregate is one choropleth bucket: mean ESG_total per ISO3 code.
type countryAggregate struct {
	ISO3      string  `json:"iso3"`
	MeanESG   float64 `json:"mean_esg"`
	Companies int     `json:"companies"`
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.loadDataset(w, r)
	if !ok {
		return
	}
	spec, err := parseSpec(r.URL.Query())
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	view := filter.Apply(ds, spec)

	// Rows without a resolved country are dropped from the aggregation;
	// their absence never affected the filtering above.
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range view.Records() {
		if rec.ISO3 == "" || rec.ESGTotal == nil {
			continue
		}
		sums[rec.ISO3] += *rec.ESGTotal
		counts[rec.ISO3]++
	}

	aggs := make([]countryAggregate, 0, len(sums))
	for iso3, sum := range sums {
		aggs = append(aggs, countryAggregate{
			ISO3:      iso3,
			MeanESG:   sum / float64(counts[iso3]),
			Companies: counts[iso3],
		})
	}
	sort.Slice(aggs, func(a, b int) bool { return aggs[a].ISO3 < aggs[b].ISO3 })

	render.JSON(w, r, aggs)
}

// maxUploadBytes bounds ad-hoc CSV uploads; datasets here are low thousands
// of rows, so anything past this is not one of ours.
const maxUploadBytes = 10 << 20

// uploadResponse is the preview returned for an accepted upload: headline
// stats plus the vocabularies of the normalized rows.
type uploadResponse struct {
	Summary viewSummary   `json:"summary"`
	Vocab   vocabResponse `json:"vocab"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := source.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		badRequest(w, r, "could not read upload body")
		return
	}
	if len(data) == 0 {
		badRequest(w, r, "empty upload")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.csv"
	}

	ds, err := s.upload(name, data)
	if err != nil {
		var schemaErr *dataset.SchemaError
		if errors.As(err, &schemaErr) {
			renderError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		// Broken CSV framing, no header: the payload's problem.
		badRequest(w, r, err.Error())
		return
	}

	render.JSON(w, r, uploadResponse{
		Summary: summarize(ds),
		Vocab: vocabResponse{
			Years:     ds.Years(),
			Sectors:   ds.Sectors(),
			Regions:   ds.Regions(),
			Countries: ds.Countries(),
			Companies: ds.Companies(),
		},
	})
}

// loadDataset fetches the canonical dataset, translating load failures into
// the appropriate status: unavailable sources are recoverable (503), schema
// violations are the caller's data problem (422).
func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) (*model.Dataset, bool) {
	ds, err := s.dataset()
	if err != nil {
		var schemaErr *dataset.SchemaError
		switch {
		case source.IsUnavailable(err):
			renderError(w, r, http.StatusServiceUnavailable, err.Error())
		case errors.As(err, &schemaErr):
			renderError(w, r, http.StatusUnprocessableEntity, err.Error())
		default:
			zap.L().Error("dataset load failed", zap.Error(err))
			renderError(w, r, http.StatusInternalServerError, "dataset load failed")
		}
		return nil, false
	}
	return ds, true
}

func summarize(view *model.Dataset) viewSummary {
	sum := viewSummary{
		Rows:      view.Len(),
		Companies: len(view.Companies()),
	}

	var totals stats.Float64Data
	var top *model.Record
	for i, rec := range view.Records() {
		if rec.ESGTotal == nil {
			continue
		}
		totals = append(totals, *rec.ESGTotal)
		if top == nil || *rec.ESGTotal > *top.ESGTotal {
			top = &view.Records()[i]
		}
	}
	if len(totals) > 0 {
		if mean, err := stats.Mean(totals); err == nil {
			sum.MeanESG = model.Ptr(mean)
		}
		if median, err := stats.Median(totals); err == nil {
			sum.MedianESG = model.Ptr(median)
		}
	}
	if top != nil {
		sum.TopCompany = top.Company
	}
	return sum
}

// parseSpec builds an immutable FilterSpec from query parameters. Absent
// parameters restrict nothing.
func parseSpec(q url.Values) (filter.Spec, error) {
	spec := filter.Spec{
		Sectors:      splitParam(q.Get("sectors")),
		Regions:      splitParam(q.Get("regions")),
		Countries:    splitParam(q.Get("countries")),
		CompanyQuery: q.Get("q"),
	}

	for _, y := range splitParam(q.Get("years")) {
		year, err := strconv.Atoi(y)
		if err != nil {
			return filter.Spec{}, errBadParam("years", y)
		}
		spec.Years = append(spec.Years, year)
	}

	var err error
	if spec.ERange, err = parseRange(q, "e", 0, 100); err != nil {
		return filter.Spec{}, err
	}
	if spec.SRange, err = parseRange(q, "s", 0, 100); err != nil {
		return filter.Spec{}, err
	}
	if spec.GRange, err = parseRange(q, "g", 0, 100); err != nil {
		return filter.Spec{}, err
	}
	if spec.TotalRange, err = parseRange(q, "esg", 0, 100); err != nil {
		return filter.Spec{}, err
	}
	if spec.CapRange, err = parseRange(q, "cap", 0, math.MaxFloat64); err != nil {
		return filter.Spec{}, err
	}

	if v := q.Get("complete"); v != "" {
		complete, err := strconv.ParseBool(v)
		if err != nil {
			return filter.Spec{}, errBadParam("complete", v)
		}
		spec.RequireComplete = complete
	}

	return spec, nil
}

// parseRange reads <name>_min / <name>_max; either bound alone activates the
// range with the other bound defaulted.
func parseRange(q url.Values, name string, defMin, defMax float64) (*filter.Range, error) {
	minStr, maxStr := q.Get(name+"_min"), q.Get(name+"_max")
	if minStr == "" && maxStr == "" {
		return nil, nil
	}

	rg := filter.Range{Min: defMin, Max: defMax}
	if minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return nil, errBadParam(name+"_min", minStr)
		}
		rg.Min = v
	}
	if maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return nil, errBadParam(name+"_max", maxStr)
		}
		rg.Max = v
	}
	if rg.Min > rg.Max {
		return nil, errBadParam(name+"_min", minStr+" > "+name+"_max")
	}
	return &rg, nil
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
