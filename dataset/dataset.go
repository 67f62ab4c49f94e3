package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
)

// Default locations of the estimates workbook and its derived CSVs. The
// merged output is an input dataset for other tooling; nothing in the
// simulation core reads it.
const (
	DefaultExcelFile = "data/HIV_estimates_from_1990-to-present.xlsx"
	DefaultExportDir = "data/csv_exports"
	DefaultOutput    = "data/preprocessed.csv"
)

// ExportAllSheets writes every sheet of the workbook to its own CSV file,
// dropping rows and columns that are entirely empty. Returns the exported
// file paths. Sheet contents are read up front, the per-sheet writes then
// fan out concurrently.
func ExportAllSheets(excelPath, outputDir string) ([]string, error) {
	f, err := excelize.OpenFile(excelPath)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook %s: %w", excelPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating export directory: %w", err)
	}

	sheets := f.GetSheetList()
	log.Printf("reading %d sheets from %s", len(sheets), excelPath)

	type export struct {
		path string
		rows [][]string
	}
	exports := make([]export, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
		}
		exports = append(exports, export{
			path: filepath.Join(outputDir, sanitizeSheetName(sheet)+".csv"),
			rows: trimEmpty(rows),
		})
	}

	var g errgroup.Group
	for _, e := range exports {
		g.Go(func() error {
			if err := writeCSV(e.path, e.rows); err != nil {
				return err
			}
			log.Printf("exported %s (%d rows)", e.path, len(e.rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(exports))
	for i, e := range exports {
		paths[i] = e.path
	}
	return paths, nil
}

// CombineCSVExports merges every exported CSV into one file. Each data row is
// labeled with its source sheet so rows stay traceable, and the whole batch
// carries one shared timestamp column up front.
func CombineCSVExports(outputDir, outputFile string) (string, error) {
	dirEntries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("error listing export directory: %w", err)
	}

	type labeled struct {
		source string
		cells  []string
	}
	var rows []labeled
	maxWidth := 0
	files := 0

	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".csv") {
			continue
		}
		files++

		f, err := os.Open(filepath.Join(outputDir, de.Name()))
		if err != nil {
			return "", fmt.Errorf("error opening %s: %w", de.Name(), err)
		}
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		f.Close()
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", de.Name(), err)
		}

		for _, cells := range trimEmpty(records) {
			rows = append(rows, labeled{source: de.Name(), cells: cells})
			maxWidth = ex.Max(maxWidth, len(cells))
		}
	}

	if files == 0 {
		return "", fmt.Errorf("no exported CSV files found in %s", outputDir)
	}

	log.Printf("merging %d files (%d rows) into %s", files, len(rows), outputFile)

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("error creating output directory: %w", err)
		}
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", outputFile, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := []string{"timestamp", "source_sheet"}
	for i := range maxWidth {
		header = append(header, fmt.Sprintf("col_%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("error writing merged header: %w", err)
	}

	batch := ex.FmtReadable(time.Now())
	for _, row := range rows {
		record := append([]string{batch, row.source}, row.cells...)
		for len(record) < maxWidth+2 {
			record = append(record, "")
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("error writing merged row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing merged output: %w", err)
	}

	return outputFile, nil
}

// PrepareDatasetPipeline runs the whole preprocessing chain: download the
// workbook when it is absent, export every sheet, then merge the exports.
// A nil fetcher skips the download step; a missing workbook is then an error.
func PrepareDatasetPipeline(fetcher *Fetcher, remotePath, excelPath, exportDir, outputFile string) error {
	log.Printf("running dataset preprocessing pipeline")

	if _, err := os.Stat(excelPath); errors.Is(err, os.ErrNotExist) {
		if fetcher == nil {
			return fmt.Errorf("workbook %s is missing and no download host is configured", excelPath)
		}
		log.Printf("workbook %s missing, downloading %s", excelPath, remotePath)
		if err := fetcher.FetchWorkbook(remotePath, excelPath); err != nil {
			return err
		}
	} else if err != nil {
		return fmt.Errorf("error checking workbook %s: %w", excelPath, err)
	}

	if _, err := ExportAllSheets(excelPath, exportDir); err != nil {
		return err
	}
	merged, err := CombineCSVExports(exportDir, outputFile)
	if err != nil {
		return err
	}
	log.Printf("merged dataset ready: %s", merged)
	return nil
}

// trimEmpty drops rows and columns that contain nothing but blanks.
func trimEmpty(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		width = ex.Max(width, len(row))
	}

	used := make([]bool, width)
	var kept [][]string
	for _, row := range rows {
		empty := true
		for i, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				used[i] = true
			}
		}
		if !empty {
			kept = append(kept, row)
		}
	}

	out := make([][]string, len(kept))
	for ri, row := range kept {
		var cells []string
		for ci := range width {
			if !used[ci] {
				continue
			}
			if ci < len(row) {
				cells = append(cells, row[ci])
			} else {
				cells = append(cells, "")
			}
		}
		out[ri] = cells
	}
	return out
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "\\", "_")
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
