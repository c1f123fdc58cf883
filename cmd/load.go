package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/niveshke/esg-explorer/internal/cache"
	"github.com/niveshke/esg-explorer/internal/country"
	"github.com/niveshke/esg-explorer/internal/dataset"
	"github.com/niveshke/esg-explorer/internal/export"
	"github.com/niveshke/esg-explorer/internal/model"
	"github.com/niveshke/esg-explorer/internal/source"
)

// datasetCache memoizes loaded datasets for the process lifetime; repeated
// renders of any view share one load per source identity.
var datasetCache = cache.New()

// pipeline is the full normalization chain every source goes through.
var pipeline = dataset.Pipeline{Resolve: country.Resolve}

// loadDataset resolves a source selection to a normalized dataset through
// the cache. sourceKind is demo|file; path applies to the file source.
func loadDataset(sourceKind, path string, demoRows, demoYear int, demoSeed uint64) (*model.Dataset, error) {
	switch source.Kind(sourceKind) {
	case source.KindDemo:
		key := cache.LocatorKey(string(source.KindDemo), demoKeyLocator(demoRows, demoYear, demoSeed))
		return datasetCache.GetOrLoad(key, func() (*model.Dataset, error) {
			return pipeline.Build(source.Generate(demoRows, demoYear, demoSeed))
		})
	case source.KindFile:
		key := cache.LocatorKey(string(source.KindFile), path)
		return datasetCache.GetOrLoad(key, func() (*model.Dataset, error) {
			batch, err := source.LoadFile(path)
			if err != nil {
				return nil, err
			}
			return pipeline.Build(batch)
		})
	default:
		return nil, eris.Errorf("unknown source %q (valid: demo, file)", sourceKind)
	}
}

func demoKeyLocator(rows, year int, seed uint64) string {
	return fmt.Sprintf("%d/%d/%d", rows, year, seed)
}

// uploadDataset normalizes an uploaded CSV payload through the cache, keyed
// by content so identical uploads share one entry regardless of filename.
func uploadDataset(name string, data []byte) (*model.Dataset, error) {
	key := cache.ContentKey(string(source.KindUpload), data)
	return datasetCache.GetOrLoad(key, func() (*model.Dataset, error) {
		batch, err := source.LoadUpload(name, data)
		if err != nil {
			return nil, err
		}
		return pipeline.Build(batch)
	})
}

func writeRawCSV(w io.Writer, batch *dataset.RawBatch) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(batch.Columns); err != nil {
		return eris.Wrap(err, "write batch: header")
	}
	for _, row := range batch.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write batch: row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "write batch: flush")
	}
	return nil
}

// writeBatchCSV writes a raw batch to path, creating parent directories.
func writeBatchCSV(path string, batch *dataset.RawBatch) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "write batch: create file")
	}
	defer f.Close()
	return writeRawCSV(f, batch)
}

// writeViewCSV writes a dataset view to path in the canonical export order.
func writeViewCSV(path string, ds *model.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "write view: create file")
	}
	defer f.Close()
	return export.WriteCSV(f, ds)
}
