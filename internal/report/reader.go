package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spatial-dedupe/internal/match"
)

// ReadFile loads a comparison report written by Writer. The serve command
// uses it to answer queries against a finished run.
func ReadFile(path string) ([]match.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	if strings.Join(header, ",") != Header {
		return nil, fmt.Errorf("read report %s: unexpected header %q", path, strings.Join(header, ","))
	}

	var recs []match.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", path, err)
		}

		rec := match.Record{
			LeftText:     row[0],
			RightText:    row[1],
			LeftClass:    row[2],
			RightClass:   row[3],
			SurrogateKey: row[8],
			LeftPK:       row[11],
			RightPK:      row[12],
			LeftX:        row[13],
			LeftY:        row[14],
			RightX:       row[15],
			RightY:       row[16],
		}
		if rec.Ratio, err = scoreField(path, "fw_ratio", row[4]); err != nil {
			return nil, err
		}
		if rec.PartialRatio, err = scoreField(path, "fw_partial_ratio", row[5]); err != nil {
			return nil, err
		}
		if rec.TokenSortRatio, err = scoreField(path, "fw_token_sort_ratio", row[6]); err != nil {
			return nil, err
		}
		if rec.TokenSetRatio, err = scoreField(path, "fw_token_set_ratio", row[7]); err != nil {
			return nil, err
		}
		if rec.LeftObjectID, err = idField(path, "left_objectID", row[9]); err != nil {
			return nil, err
		}
		if rec.RightObjectID, err = idField(path, "right_objectID", row[10]); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func scoreField(path, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("read report %s: bad %s value %q", path, name, s)
	}
	return n, nil
}

func idField(path, name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("read report %s: bad %s value %q", path, name, s)
	}
	return n, nil
}
