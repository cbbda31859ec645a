package main

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/mairateam/calculators/internal/log"
	"github.com/mairateam/calculators/internal/report"
	"github.com/mairateam/calculators/internal/scenario"
)

const (
	listTimeLayout = "2006-01-02 15:04"
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type scenarioRow struct {
	ID         string
	Title      string
	Calculator string
	CreatedAt  string
	Headline   string
}

type scenariosViewData struct {
	baseViewData
	Query     string
	Scenarios []scenarioRow
}

type scenarioDetailViewData struct {
	baseViewData
	ID        string
	Notes     string
	CreatedAt string
	Report    report.Report
}

func (s *server) handleScenarioCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	kind, ok := scenario.ParseKind(r.FormValue("kind"))
	if !ok {
		s.renderScenarioList(w, r, http.StatusBadRequest, "", "unknown calculator")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		s.renderScenarioList(w, r, http.StatusBadRequest, "", "title is required")
		return
	}
	notes := strings.TrimSpace(r.FormValue("notes"))
	currency := s.currency(r)

	var (
		sc  scenario.Scenario
		err error
	)
	switch kind {
	case scenario.KindPPC:
		in, perr := parsePPCForm(r)
		if perr != nil {
			s.renderScenarioList(w, r, http.StatusBadRequest, "", perr.Error())
			return
		}
		sc, err = scenario.NewPPC(title, notes, currency, in)
	default:
		in, perr := parseUnitEconomicsForm(r)
		if perr != nil {
			s.renderScenarioList(w, r, http.StatusBadRequest, "", perr.Error())
			return
		}
		sc, err = scenario.NewUnitEconomics(title, notes, currency, in)
	}
	if errors.Is(err, scenario.ErrNotFinite) {
		s.renderScenarioList(w, r, http.StatusBadRequest, "", "results are out of range and cannot be saved")
		return
	}
	if err == nil {
		sc, err = s.store.Create(r.Context(), sc)
	}
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: save failed")
		http.Error(w, "failed to save scenario", http.StatusInternalServerError)
		return
	}

	log.ForContext(r.Context()).WithFields(log.Fields{
		"scenario_id": sc.ID,
		"kind":        sc.Kind,
	}).Info("scenario saved")
	http.Redirect(w, r, "/scenarios/"+sc.ID, http.StatusSeeOther)
}

func (s *server) handleScenariosList(w http.ResponseWriter, r *http.Request) {
	s.renderScenarioList(w, r, http.StatusOK, r.URL.Query().Get("success"), "")
}

func (s *server) renderScenarioList(w http.ResponseWriter, r *http.Request, status int, success, failure string) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	list, err := s.store.List(r.Context(), query)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: list failed")
		http.Error(w, "failed to load scenarios", http.StatusInternalServerError)
		return
	}

	rows := make([]scenarioRow, 0, len(list))
	for _, sc := range list {
		rows = append(rows, scenarioRow{
			ID:         sc.ID,
			Title:      sc.Title,
			Calculator: calculatorName(sc.Kind),
			CreatedAt:  sc.CreatedAt.Format(listTimeLayout),
			Headline:   headline(sc),
		})
	}

	s.renderTemplate(w, r, status, "scenarios.html", scenariosViewData{
		baseViewData: baseViewData{ErrorMessage: failure, SuccessMessage: success},
		Query:        query,
		Scenarios:    rows,
	})
}

func (s *server) handleScenarioDetail(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	rep, err := sc.Report()
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: decode failed")
		http.Error(w, "failed to read scenario", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, r, http.StatusOK, "scenario_detail.html", scenarioDetailViewData{
		ID:        sc.ID,
		Notes:     sc.Notes,
		CreatedAt: sc.CreatedAt.Format(listTimeLayout),
		Report:    rep,
	})
}

func (s *server) handleScenarioText(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	text, err := scenario.Text(sc)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: text export failed")
		http.Error(w, "failed to export scenario", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *server) handleScenarioXLSX(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := scenario.WriteXLSX(&buf, sc); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: xlsx export failed")
		http.Error(w, "failed to export scenario", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename=scenario-"+sc.ID+".xlsx")
	_, _ = buf.WriteTo(w)
}

func (s *server) handleScenarioDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if errors.Is(err, scenario.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: delete failed")
		http.Error(w, "failed to delete scenario", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/scenarios?success="+url.QueryEscape("Scenario deleted."), http.StatusSeeOther)
}

func (s *server) loadScenario(w http.ResponseWriter, r *http.Request) (scenario.Scenario, bool) {
	sc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, scenario.ErrNotFound) {
		http.NotFound(w, r)
		return sc, false
	}
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("scenario: load failed")
		http.Error(w, "failed to load scenario", http.StatusInternalServerError)
		return sc, false
	}
	return sc, true
}

func calculatorName(kind scenario.Kind) string {
	if kind == scenario.KindPPC {
		return "PPC"
	}
	return "Unit economics"
}

// headline picks the metric shown in the list: profit (or revenue without a
// margin) for PPC, breakeven ROAS for unit economics.
func headline(sc scenario.Scenario) string {
	rep, err := sc.Report()
	if err != nil {
		return "-"
	}

	keys := []string{"profit", "revenue"}
	if sc.Kind == scenario.KindUnitEconomics {
		keys = []string{"breakEvenROAS"}
	}
	for _, key := range keys {
		if l, ok := rep.Output(key); ok && l.Present {
			return l.Label + ": " + l.Display
		}
	}
	return "-"
}
