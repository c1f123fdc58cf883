package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/model"
)

func TestGenerate_CanonicalShape(t *testing.T) {
	t.Parallel()

	batch := Generate(50, 2021, 7)
	require.Len(t, batch.Rows, 50)

	wantCols := append(append([]string{}, model.RequiredColumns...), model.OptionalColumns...)
	assert.Equal(t, wantCols, batch.Columns)
	require.NoError(t, dataset.ValidateSchema(batch))

	sectors := make(map[string]bool)
	for _, s := range model.AllowedSectors {
		sectors[s] = true
	}
	for i, row := range batch.Rows {
		require.Len(t, row, len(wantCols), "row %d", i)
		assert.True(t, sectors[row[2]], "row %d sector %q", i, row[2])
		assert.Equal(t, "2021", row[5], "row %d", i)

		for col := 6; col <= 9; col++ { // E, S, G, ESG_total
			v, err := strconv.ParseFloat(row[col], 64)
			require.NoError(t, err, "row %d col %d", i, col)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
		mc, err := strconv.ParseFloat(row[10], 64)
		require.NoError(t, err)
		assert.Greater(t, mc, 0.0)
	}
}

func TestGenerate_SeedReproducible(t *testing.T) {
	t.Parallel()

	a := Generate(20, 2021, 42)
	b := Generate(20, 2021, 42)
	c := Generate(20, 2021, 43)

	assert.Equal(t, a.Rows, b.Rows)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestGenerate_NormalizesCleanly(t *testing.T) {
	t.Parallel()

	recs := dataset.Normalize(Generate(30, 2020, 1))
	require.Len(t, recs, 30)
	for i, r := range recs {
		assert.True(t, r.Complete(), "row %d", i)
		assert.Equal(t, 2020, *r.Year, "row %d", i)
	}
}

func TestLoadFile_MissingIsUnavailable(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestLoadFile_ReadsBatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "esg.csv")
	content := "company,ticker,sector,region,country,year,E,S,G,ESG_total,market_cap_usd\nAcme,ACM,Energy,Europe,Germany,2021,50,60,70,60,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	batch, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, batch.Rows, 1)
	assert.Equal(t, "Acme", batch.Rows[0][0])
}

func TestLoadUpload(t *testing.T) {
	t.Parallel()

	batch, err := LoadUpload("upload.csv", []byte("company,year\nAcme,2021\n"))
	require.NoError(t, err)
	assert.Len(t, batch.Rows, 1)

	_, err = LoadUpload("broken.csv", []byte("a,\"b\nunterminated"))
	assert.Error(t, err)
}

func TestDownloader_WritesFile(t *testing.T) {
	t.Parallel()

	const body = "company,ticker,sector,region,country,year,E,S,G,ESG_total,market_cap_usd\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "raw", "esg.csv")
	d := NewDownloader(DownloaderOptions{RequestsPerSecond: 100})
	require.NoError(t, d.Download(context.Background(), srv.URL, dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestDownloader_ExhaustedRetriesUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "esg.csv")
	d := NewDownloader(DownloaderOptions{MaxRetries: 2, RequestsPerSecond: 100})
	err := d.Download(context.Background(), srv.URL, dest)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}
