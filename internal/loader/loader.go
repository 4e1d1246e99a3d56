// Package loader reads the append-only price file into a PriceSeries.
//
// Every failure degrades to an empty series. The accompanying error says why,
// so callers can tell "no data yet" from "file unreadable" if they care.
package loader

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

	"GoldDashboard/internal/model"

	"go.uber.org/zap"
)

var (
	ErrMissingSource    = errors.New("price file not found")
	ErrUnreadableSource = errors.New("price file unreadable")
	ErrMalformedRecord  = errors.New("malformed price record")
	ErrEmptySeries      = errors.New("price file holds no records")
)

// Source yields a fresh PriceSeries on every call.
type Source interface {
	Load() (model.PriceSeries, error)
	Name() string
}

// FileLoader reads a headerless two-column (timestamp, price) file.
type FileLoader struct {
	Path string
	// Location interprets timestamps; nil means UTC.
	Location *time.Location
	// SkipMalformed drops bad rows instead of failing the whole load.
	SkipMalformed bool
	Logger        *zap.Logger
}

// NewFileLoader creates a FileLoader with whole-load fail-soft semantics.
func NewFileLoader(path string, logger *zap.Logger) *FileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLoader{Path: path, Location: time.UTC, Logger: logger}
}

func (l *FileLoader) Name() string { return "file:" + l.Path }

// Load reads the file from scratch. The returned series is never nil.
func (l *FileLoader) Load() (model.PriceSeries, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.PriceSeries{}, fmt.Errorf("%w: %s", ErrMissingSource, l.Path)
		}
		return model.PriceSeries{}, fmt.Errorf("%w: open %s: %v", ErrUnreadableSource, l.Path, err)
	}
	defer f.Close()

	series, err := l.parse(f)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if len(series) == 0 {
		return model.PriceSeries{}, ErrEmptySeries
	}
	return series, nil
}

func (l *FileLoader) parse(r io.Reader) (model.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}

	series := model.PriceSeries{}
	skipped := 0
	for n := 1; ; n++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// Only row-level syntax errors are recoverable; anything else from
		// the reader recurs on every call.
		var perr *csv.ParseError
		if err != nil && !errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, l.Path, err)
		}
		if err == nil {
			var rec model.PriceRecord
			rec, err = parseRecord(fields, loc)
			if err == nil {
				series = append(series, rec)
				continue
			}
		}
		if !l.SkipMalformed {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedRecord, n, err)
		}
		skipped++
	}
	if skipped > 0 {
		l.Logger.Warn("skipped malformed price records",
			zap.String("path", l.Path), zap.Int("skipped", skipped))
	}
	return series, nil
}

func parseRecord(fields []string, loc *time.Location) (model.PriceRecord, error) {
	if len(fields) != 2 {
		return model.PriceRecord{}, fmt.Errorf("expected 2 columns, got %d", len(fields))
	}
	ts, err := time.ParseInLocation(model.TimestampLayout, strings.TrimSpace(fields[0]), loc)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("parse timestamp: %w", err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("parse price: %w", err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return model.PriceRecord{}, fmt.Errorf("price %q is not finite", fields[1])
	}
	return model.PriceRecord{Time: ts, Price: price}, nil
}

// Load reads path with default options.
func Load(path string) (model.PriceSeries, error) {
	return NewFileLoader(path, nil).Load()
}
