package main

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func savePPC(t *testing.T, h http.Handler, title string) string {
	t.Helper()

	form := url.Values{}
	form.Set("kind", "ppc")
	form.Set("title", title)
	form.Set("notes", "Spring campaign")
	form.Set("currency", "USD")
	form.Set("searchVolume", "1000")
	form.Set("ctr", "10")
	form.Set("cpc", "5")
	form.Set("cvr", "2")
	form.Set("aov", "1200")
	form.Set("margin", "")

	rr := serve(t, h, http.MethodPost, "/scenarios", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	location := rr.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/scenarios/"), location)
	return strings.TrimPrefix(location, "/scenarios/")
}

func TestScenarioFlow(t *testing.T) {
	h := newTestServer(t).routes()
	id := savePPC(t, h, "Brand keywords")

	rr := serve(t, h, http.MethodGet, "/scenarios/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Brand keywords")
	assert.Contains(t, rr.Body.String(), "Spring campaign")
	assert.Contains(t, rr.Body.String(), "$2,400")
	assert.NotContains(t, rr.Body.String(), "<th>Profit</th>")

	rr = serve(t, h, http.MethodGet, "/scenarios", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Revenue: $2,400")

	rr = serve(t, h, http.MethodGet, "/scenarios?q=nothing-like-this", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No scenarios yet.")

	rr = serve(t, h, http.MethodGet, "/scenarios/"+id+"/text", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "- Margin: -")
	assert.Contains(t, rr.Body.String(), "- Costs: $500")

	rr = serve(t, h, http.MethodGet, "/scenarios/"+id+"/xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=scenario-"+id+".xlsx", rr.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Inputs", "Outputs"}, f.GetSheetList())

	rr = serve(t, h, http.MethodPost, "/scenarios/"+id+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "success=")

	rr = serve(t, h, http.MethodGet, "/scenarios/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestScenarioCreate_Validation(t *testing.T) {
	h := newTestServer(t).routes()

	form := url.Values{}
	form.Set("kind", "ppc")
	form.Set("title", "  ")
	rr := serve(t, h, http.MethodPost, "/scenarios", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "title is required")

	form.Set("kind", "roi")
	form.Set("title", "Anything")
	rr = serve(t, h, http.MethodPost, "/scenarios", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	form = url.Values{}
	form.Set("kind", "unit_economics")
	form.Set("title", "Bad aov")
	form.Set("aov", "lots")
	rr = serve(t, h, http.MethodPost, "/scenarios", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "aov must be a number")
}

func TestScenarioCreate_OverflowIsRejected(t *testing.T) {
	h := newTestServer(t).routes()

	form := url.Values{}
	form.Set("kind", "ppc")
	form.Set("title", "Too big")
	form.Set("searchVolume", "1e300")
	form.Set("ctr", "1e300")
	form.Set("cpc", "5")
	form.Set("cvr", "2")
	form.Set("aov", "1200")

	rr := serve(t, h, http.MethodPost, "/scenarios", form)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "out of range")

	rr = serve(t, h, http.MethodGet, "/scenarios", nil)
	assert.NotContains(t, rr.Body.String(), "Too big")
}

func TestScenarioNotFound(t *testing.T) {
	h := newTestServer(t).routes()

	for _, target := range []string{"/scenarios/missing", "/scenarios/missing/text", "/scenarios/missing/xlsx"} {
		rr := serve(t, h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, target)
	}

	rr := serve(t, h, http.MethodPost, "/scenarios/missing/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
