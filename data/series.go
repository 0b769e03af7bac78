package data

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strconv"
)

// Series is one priced curve handed to plotting consumers.
type Series struct {
	Label  string    `json:"label"`
	Assets []float64 `json:"asset_axis"`
	Prices []float64 `json:"prices"`
}

// Write series in long format: label,asset,price
func WriteCSV(w io.Writer, series ...Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "asset", "price"}); err != nil {
		return err
	}
	for _, s := range series {
		if len(s.Assets) != len(s.Prices) {
			return errors.New("series " + s.Label + ": asset axis and prices differ in length")
		}
		for i := range s.Assets {
			row := []string{
				s.Label,
				strconv.FormatFloat(s.Assets[i], 'f', -1, 64),
				strconv.FormatFloat(s.Prices[i], 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// helper function to open a json file into target
func Open[T any](filename string, target T) (T, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return target, err
	}
	err = json.Unmarshal(file, &target)
	if err != nil {
		return target, err
	}
	return target, nil
}
