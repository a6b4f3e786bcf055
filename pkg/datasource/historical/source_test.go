package historical

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peter-kozarec/zenith/pkg/datasource"
)

func writeBinaryBars(t *testing.T, path string, bars []BinaryBar) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	for i := range bars {
		raw := (*[unsafe.Sizeof(BinaryBar{})]byte)(unsafe.Pointer(&bars[i]))[:]
		_, err = f.Write(raw)
		require.NoError(t, err)
	}
}

func hourlyBars(start time.Time, count int) []BinaryBar {
	bars := make([]BinaryBar, 0, count)
	for i := 0; i < count; i++ {
		price := float64(100 + i)
		bars = append(bars, BinaryBar{
			TimeStamp: start.Add(time.Duration(i) * time.Hour).UnixNano(),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    10,
		})
	}
	return bars
}

func TestHistoricalSource_ReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.bin")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBinaryBars(t, path, hourlyBars(start, 3))

	source := NewSource[BinaryBar](path)
	require.NoError(t, source.Open())
	defer source.Close()

	count, err := source.EntryCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	var entry BinaryBar
	for i := int64(0); i < count; i++ {
		require.NoError(t, source.Read(i, &entry))
		assert.Equal(t, float64(100+i), entry.Close)
	}

	assert.ErrorIs(t, source.Read(count, &entry), datasource.ErrEof)
}

func TestHistoricalSource_ReadBeforeOpen(t *testing.T) {
	source := NewSource[BinaryBar](filepath.Join(t.TempDir(), "bars.bin"))

	var entry BinaryBar
	assert.Error(t, source.Read(0, &entry))

	_, err := source.EntryCount()
	assert.Error(t, err)
}

func TestHistoricalSource_RejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.bin")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBinaryBars(t, path, hourlyBars(start, 2))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte{0x00})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	source := NewSource[BinaryBar](path)
	assert.Error(t, source.Open())
}

func TestHistoricalBarReader_StreamsRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.bin")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBinaryBars(t, path, hourlyBars(start, 5))

	source := NewSource[BinaryBar](path)
	require.NoError(t, source.Open())
	defer source.Close()

	// Skip the first bar, admit the next three.
	reader := NewBarReader(source, "BTCUSD", time.Hour, start.Add(time.Hour), start.Add(3*time.Hour))

	for i := 0; i < 3; i++ {
		bar, err := reader.GetNext()
		require.NoError(t, err)
		assert.Equal(t, "BTCUSD", bar.Symbol)
		assert.Equal(t, start.Add(time.Duration(i+1)*time.Hour), bar.TimeStamp.UTC())
	}

	_, err := reader.GetNext()
	assert.ErrorIs(t, err, datasource.ErrEof)
}
