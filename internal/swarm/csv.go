package swarm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spacephys/driftframe/internal/monitoring"
	"github.com/spacephys/driftframe/internal/timeutil"
)

// CSVReader reads a pass from a CSV file with a header row naming the
// columns. Column order is free and extra columns are ignored. Timestamp may
// be unix seconds or RFC 3339; empty float cells read as NaN.
type CSVReader struct {
	Path string
}

// Read implements Reader.
func (r *CSVReader) Read() (*Pass, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", r.Path, err)
	}
	defer f.Close()

	p, err := readCSV(r.Path, f)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("swarm: read %d samples from %s", p.Len(), r.Path)
	return p, nil
}

func readCSV(source string, rd io.Reader) (*Pass, error) {
	cr := csv.NewReader(rd)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %s: missing header", source)
		}
		return nil, fmt.Errorf("csv %s: %w", source, err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	required := append([]string{ColTimestamp, ColQualityFlags}, floatColumns...)
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("csv %s: missing column %s", source, name)
		}
	}

	var times []time.Time
	var flags []int
	cols := make(map[string][]float64, len(floatColumns))
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv %s: %w", source, err)
		}

		ts, err := parseTimestamp(rec[index[ColTimestamp]])
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", source, line, err)
		}
		times = append(times, ts)

		flag, err := strconv.Atoi(strings.TrimSpace(rec[index[ColQualityFlags]]))
		if err != nil {
			return nil, fmt.Errorf("csv %s line %d: %s: %w", source, line, ColQualityFlags, err)
		}
		flags = append(flags, flag)

		for _, name := range floatColumns {
			v, err := parseFloat(rec[index[name]])
			if err != nil {
				return nil, fmt.Errorf("csv %s line %d: %s: %w", source, line, name, err)
			}
			cols[name] = append(cols[name], v)
		}
	}
	return assemble(source, times, cols, flags)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		return timeutil.FromUnixSeconds(sec), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.UTC(), nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
