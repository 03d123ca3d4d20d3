package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"medadmin/m/domain"
	"medadmin/m/internal/localdata"
)

// LoadStock builds the starting legacy dataset from a CSV of stock
// batches. The issue and purchase logs keep their built-in rows.
func LoadStock(csvPath string, log *slog.Logger) (*localdata.Dataset, error) {
	if log == nil {
		log = slog.Default()
	}
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open stock seed %s: %w", csvPath, err)
	}
	defer file.Close()

	rows, err := ReadStock(file, log)
	if err != nil {
		return nil, err
	}
	ds := localdata.Initial()
	ds.Stock = rows
	log.Info("seeded legacy stock", "path", csvPath, "rows", len(rows))
	return &ds, nil
}

// ReadStock parses name,batch,quantity,expiry,unit[,createdDate] rows
// after a header. Short, nameless or non-numeric rows are skipped.
func ReadStock(r io.Reader, log *slog.Logger) ([]domain.StockRecord, error) {
	if log == nil {
		log = slog.Default()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read stock header: %w", err)
	}

	var out []domain.StockRecord
	var id int64
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("unable to read stock row", "err", err)
			continue
		}
		if len(record) < 5 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			log.Warn("unable to parse stock quantity", "name", name, "err", err)
			continue
		}
		id++
		rec := domain.StockRecord{
			ID:       id,
			Name:     name,
			Batch:    strings.TrimSpace(record[1]),
			Quantity: qty,
			Expiry:   strings.TrimSpace(record[3]),
			Unit:     strings.TrimSpace(record[4]),
		}
		if len(record) > 5 {
			rec.CreatedDate = strings.TrimSpace(record[5])
		}
		out = append(out, rec)
	}
	return out, nil
}
