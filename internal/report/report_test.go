package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestFormatDailyReport_Template(t *testing.T) {
	snap := model.KPISnapshot{
		Status:     model.KPIStatusOK,
		Day:        optional.Some(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Open:       optional.Some(10.0),
		Last:       optional.Some(12.0),
		Min:        optional.Some(9.0),
		Max:        optional.Some(13.0),
		Volatility: optional.Some(1.41),
	}
	want := "Report of 2024-01-01 :\n" +
		"- Open : 10.00\n" +
		"- Close : 12.00\n" +
		"- Min : 9.00\n" +
		"- Max : 13.00\n" +
		"- Volatility : 1.41"
	assert.Equal(t, want, FormatDailyReport(snap))
}

func TestFormatDailyReport_NoData(t *testing.T) {
	snap := model.KPISnapshot{
		Status: model.KPIStatusNoData,
		Day:    optional.Some(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, "No data available for 2024-01-06", FormatDailyReport(snap))
}

func TestFixed2(t *testing.T) {
	tests := []struct {
		in   optional.Option[float64]
		want string
	}{
		{optional.Some(1.414213), "1.41"},
		{optional.Some(1.415), "1.41"},
		{optional.Some(2.675), "2.67"},
		{optional.Some(1.005), "1.00"},
		{optional.Some(0.125), "0.12"},
		{optional.Some(0.375), "0.38"},
		{optional.Some(-1.415), "-1.41"},
		{optional.Some(1.41), "1.41"},
		{optional.Some(2050.0), "2050.00"},
		{optional.Some(-0.004), "0.00"},
		{optional.None[float64](), "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fixed2(tt.in))
	}
}

func TestGenerateDailyReport(t *testing.T) {
	s := model.PriceSeries{
		{Time: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Price: 10},
		{Time: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Price: 9},
		{Time: time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), Price: 13},
		{Time: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), Price: 12},
	}
	text := GenerateDailyReport(s, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, text, "Report of 2024-01-01 :\n")
	assert.Contains(t, text, "- Open : 10.00\n")
	assert.Contains(t, text, "- Close : 12.00\n")
	assert.Contains(t, text, "- Min : 9.00\n")
	assert.Contains(t, text, "- Max : 13.00\n")
	assert.Contains(t, text, "- Volatility : 1.83")

	single := GenerateDailyReport(s[:1], time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, single, "- Volatility : -")

	none := GenerateDailyReport(s, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "No data available for 2024-01-02", none)
}

func TestReportDay(t *testing.T) {
	now := time.Date(2024, 1, 6, 15, 0, 0, 0, time.UTC) // Saturday
	s := model.PriceSeries{
		{Time: time.Date(2024, 1, 5, 21, 55, 0, 0, time.UTC), Price: 1},
	}
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ReportDay(s, now))
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), ReportDay(model.PriceSeries{}, now))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "out", "report.txt"))

	_, err := store.Read(ctx)
	assert.ErrorIs(t, err, ErrNoReport)
	assert.Equal(t, Unavailable, ReadDailyReport(ctx, store))

	require.NoError(t, store.Write(ctx, "first report with more text"))
	require.NoError(t, store.Write(ctx, "second"))
	assert.Equal(t, "second", ReadDailyReport(ctx, store))

	entries, err := os.ReadDir(filepath.Dir(store.Path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

type GeneratorTestSuite struct {
	suite.Suite
	store *FileStore
	src   *loader.StaticSource
	gen   *Generator
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorTestSuite))
}

func (s *GeneratorTestSuite) SetupTest() {
	s.store = NewFileStore(filepath.Join(s.T().TempDir(), "report.txt"))
	s.src = &loader.StaticSource{}
	s.gen = NewGenerator(s.src, s.store, nil)
	s.gen.Now = func() time.Time { return time.Date(2024, 1, 8, 7, 0, 0, 0, time.UTC) }
}

func (s *GeneratorTestSuite) TestUsesMostRecentDateWithData() {
	s.src.Series = model.PriceSeries{
		{Time: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC), Price: 1},
		{Time: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), Price: 10},
		{Time: time.Date(2024, 1, 5, 17, 0, 0, 0, time.UTC), Price: 12},
	}
	rep, err := s.gen.Generate(context.Background(), optional.None[time.Time]())
	s.Require().NoError(err)
	s.Equal(model.ReportStatusOK, rep.Status)
	s.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rep.Day)
	s.NotEmpty(rep.RunID)

	text, err := s.store.Read(context.Background())
	s.Require().NoError(err)
	s.Equal(rep.Text, text)
	s.Contains(text, "Report of 2024-01-05 :")
	s.Contains(text, "- Close : 12.00")
}

func (s *GeneratorTestSuite) TestExplicitDayWithoutData() {
	s.src.Series = model.PriceSeries{
		{Time: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), Price: 10},
	}
	day := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	rep, err := s.gen.Generate(context.Background(), optional.Some(day))
	s.Require().NoError(err)
	s.Equal(model.ReportStatusNoData, rep.Status)
	s.Equal("No data available for 2024-01-07", ReadDailyReport(context.Background(), s.store))
}

func (s *GeneratorTestSuite) TestMissingSourceWritesPlaceholder() {
	s.src.Err = loader.ErrMissingSource
	rep, err := s.gen.Generate(context.Background(), optional.None[time.Time]())
	s.Require().NoError(err)
	s.Equal(model.ReportStatusNoData, rep.Status)
	s.Equal("No data available for 2024-01-08", rep.Text)
}

func (s *GeneratorTestSuite) TestWriteFailure() {
	s.gen.Store = failingStore{}
	rep, err := s.gen.Generate(context.Background(), optional.None[time.Time]())
	s.Error(err)
	s.Equal(model.ReportStatusFailed, rep.Status)
}

type failingStore struct{}

func (failingStore) Write(context.Context, string) error  { return errors.New("disk full") }
func (failingStore) Read(context.Context) (string, error) { return "", ErrNoReport }
func (failingStore) Name() string                         { return "failing" }
