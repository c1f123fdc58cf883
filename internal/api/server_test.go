package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshke/esg-explorer/internal/cache"
	"github.com/niveshke/esg-explorer/internal/country"
	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/model"
	"github.com/niveshke/esg-explorer/internal/source"
)

const apiSampleCSV = `company,ticker,sector,region,country,year,E,S,G,ESG_total,market_cap_usd
Acme Energy,ACM,Energy,North America,United States,2021,40,50,55,48.3,10
Borealis Utilities,BOR,Utilities,Europe,Germany,2021,70,75,80,75,42.5
Cobalt Mining,COB,Materials,Latin America,Brazil,2020,20,30,25,25,3.2
Dune Capital,DUN,Financials,Europe,France,2021,55,60,65,60,7.7
`

func testServer(t *testing.T) *Server {
	t.Helper()

	batch, err := dataset.ReadBatch(strings.NewReader(apiSampleCSV))
	require.NoError(t, err)
	p := dataset.Pipeline{Resolve: country.Resolve}
	ds, err := p.Build(batch)
	require.NoError(t, err)

	uploads := cache.New()
	return NewServer(
		func() (*model.Dataset, error) { return ds, nil },
		WithUpload(func(name string, data []byte) (*model.Dataset, error) {
			key := cache.ContentKey(string(source.KindUpload), data)
			return uploads.GetOrLoad(key, func() (*model.Dataset, error) {
				b, err := source.LoadUpload(name, data)
				if err != nil {
					return nil, err
				}
				return p.Build(b)
			})
		}),
	)
}

func doGET(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router([]string{"*"}).ServeHTTP(rec, req)
	return rec
}

func doPOST(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router([]string{"*"}).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestVocab(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/vocab")
	require.Equal(t, http.StatusOK, rec.Code)

	var v vocabResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, []int{2020, 2021}, v.Years)
	assert.Equal(t, []string{"Energy", "Financials", "Materials", "Utilities"}, v.Sectors)
	assert.Contains(t, v.Countries, "Germany")
	assert.Len(t, v.Companies, 4)
}

func TestView_FilteredWithSummary(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view?years=2021&regions=Europe")
	require.Equal(t, http.StatusOK, rec.Code)

	var v viewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Records, 2)
	assert.Equal(t, 2, v.Summary.Rows)
	assert.Equal(t, "Borealis Utilities", v.Summary.TopCompany)
	require.NotNil(t, v.Summary.MeanESG)
	assert.InDelta(t, 67.5, *v.Summary.MeanESG, 0.001) // mean of 75 and 60
}

func TestView_EmptyResultIsOK(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view?sectors=Real+Estate")
	require.Equal(t, http.StatusOK, rec.Code)

	var v viewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Empty(t, v.Records)
	assert.Equal(t, 0, v.Summary.Rows)
}

func TestView_BadRangeParam(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view?e_min=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGET(t, testServer(t), "/api/view?e_min=80&e_max=20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_CSVRoundTrip(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view/export?years=2021")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	batch, err := dataset.ReadBatch(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, model.ExportColumns(), batch.Columns)
	assert.Len(t, batch.Rows, 3)
}

func TestExport_XLSX(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view/export?format=xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, "PK", rec.Body.String()[:2])
}

func TestExport_BadFormat(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/view/export?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/compare?companies=Acme+Energy,Dune+Capital,Ghost+Co")
	require.Equal(t, http.StatusOK, rec.Code)

	var v compareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Len(t, v.Companies, 2)
	assert.Equal(t, "Acme Energy", v.Companies[0].Company)
	assert.Equal(t, []string{"Ghost Co"}, v.Missing)
}

func TestCompare_TooMany(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/compare?companies=a,b,c,d,e,f")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doGET(t, testServer(t), "/api/compare")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSector_TopAndBottom(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/sector/Energy")
	require.Equal(t, http.StatusOK, rec.Code)

	var v sectorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "Energy", v.Sector)
	require.Len(t, v.Top, 1)
	assert.Equal(t, "Acme Energy", v.Top[0].Company)
}

func TestCountry_Aggregation(t *testing.T) {
	t.Parallel()

	rec := doGET(t, testServer(t), "/api/country")
	require.Equal(t, http.StatusOK, rec.Code)

	var aggs []countryAggregate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aggs))
	require.Len(t, aggs, 4)
	assert.Equal(t, "BRA", aggs[0].ISO3) // sorted by code
	for _, a := range aggs {
		assert.Equal(t, 1, a.Companies)
	}
}

func TestUpload(t *testing.T) {
	t.Parallel()

	body := `company,ticker,sector,region,country,year,E,S,G,ESG_total,market_cap_usd
Nimbus Software,NIM,Information Technology,North America,United States,2021,65,60,60,62,120
Pelican Power,PEL,Utilities,Europe,Spain,2021,70,72,68,70,15
`
	rec := doPOST(t, testServer(t), "/api/upload?name=portfolio.csv", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var v uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, 2, v.Summary.Rows)
	assert.Equal(t, "Pelican Power", v.Summary.TopCompany)
	assert.Equal(t, []string{"Information Technology", "Utilities"}, v.Vocab.Sectors)
	assert.Contains(t, v.Vocab.Countries, "Spain")
}

func TestUpload_MissingColumns(t *testing.T) {
	t.Parallel()

	body := "company,sector\nAcme,Energy\n"
	rec := doPOST(t, testServer(t), "/api/upload", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpload_EmptyBody(t *testing.T) {
	t.Parallel()

	rec := doPOST(t, testServer(t), "/api/upload", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_NotConfigured(t *testing.T) {
	t.Parallel()

	// Without an UploadFunc the route is never mounted.
	s := NewServer(func() (*model.Dataset, error) { return model.NewDataset(nil), nil })
	rec := doPOST(t, s, "/api/upload", "anything")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadFailures(t *testing.T) {
	t.Parallel()

	unavailable := NewServer(func() (*model.Dataset, error) {
		return nil, &source.UnavailableError{Kind: source.KindFile, Locator: "data/esg.csv"}
	})
	rec := doGET(t, unavailable, "/api/vocab")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	badSchema := NewServer(func() (*model.Dataset, error) {
		return nil, &dataset.SchemaError{Missing: []string{"ESG_total"}}
	})
	rec = doGET(t, badSchema, "/api/vocab")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
