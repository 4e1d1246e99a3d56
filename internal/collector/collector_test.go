package collector

import (
	"fmt"
	"testing"
	"time"

	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSeries(n int) model.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.PriceSeries, n)
	for i := range s {
		s[i] = model.PriceRecord{Time: base.Add(time.Duration(i) * 5 * time.Minute), Price: 2000 + float64(i%7)}
	}
	return s
}

func TestCollect_Normal(t *testing.T) {
	src := &loader.StaticSource{Series: mockSeries(100)}
	c := NewCollector(src, 0, nil)
	snap := c.Collect()

	assert.Equal(t, model.LoadStatusOK, snap.Status)
	assert.Empty(t, snap.Error)
	assert.Equal(t, model.DefaultWindow, snap.Window)
	require.Len(t, snap.Rows, 100)
	assert.True(t, snap.Rows[46].SMA.IsNone())
	assert.True(t, snap.Rows[47].SMA.IsSome())
	assert.True(t, snap.Rows[47].RSI.IsSome())
	assert.True(t, snap.KPIs.Available())
	assert.Equal(t, 100, snap.KPIs.Count)
	assert.Equal(t, 30.0, snap.RSIOversold)
	assert.Equal(t, 70.0, snap.RSIOverbought)
}

func TestCollect_FailSoft(t *testing.T) {
	tests := []struct {
		err    error
		status model.LoadStatus
	}{
		{fmt.Errorf("%w: data.csv", loader.ErrMissingSource), model.LoadStatusMissingSource},
		{fmt.Errorf("%w: read data.csv: EIO", loader.ErrUnreadableSource), model.LoadStatusUnreadableSource},
		{fmt.Errorf("%w: record 3", loader.ErrMalformedRecord), model.LoadStatusMalformedRecord},
		{loader.ErrEmptySeries, model.LoadStatusEmptySeries},
	}
	for _, tt := range tests {
		c := NewCollector(&loader.StaticSource{Err: tt.err}, 3, nil)
		snap := c.Collect()
		assert.Equal(t, tt.status, snap.Status)
		assert.NotEmpty(t, snap.Error)
		assert.NotNil(t, snap.Rows)
		assert.Len(t, snap.Rows, 0)
		assert.Equal(t, model.KPIStatusUnavailable, snap.KPIs.Status)
	}
}

func TestCollect_NoCachingBetweenCalls(t *testing.T) {
	src := &loader.StaticSource{Series: mockSeries(3)}
	c := NewCollector(src, 2, nil)
	assert.Len(t, c.Collect().Rows, 3)

	src.Series = mockSeries(5)
	assert.Len(t, c.Collect().Rows, 5)
}
