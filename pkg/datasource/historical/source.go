package historical

import (
	"fmt"
	"io"
	"sync"
	"unsafe"

	"golang.org/x/exp/mmap"

	"github.com/peter-kozarec/zenith/pkg/datasource"
)

// Source is a random-access view over a file of fixed-size binary entries,
// memory mapped for cheap repeated reads during index lookups. T must be a
// struct without padding, laid out exactly as the file stores it.
type Source[T any] struct {
	dataSourceName string
	entrySize      int64
	reader         *mmap.ReaderAt
	bufferPool     sync.Pool
}

func NewSource[T any](dataSourceName string) *Source[T] {
	entrySize := int64(unsafe.Sizeof(*new(T)))
	return &Source[T]{
		dataSourceName: dataSourceName,
		entrySize:      entrySize,
		bufferPool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, entrySize)
				return &buffer
			},
		},
	}
}

func (s *Source[T]) Open() error {
	if s.entrySize == 0 {
		return fmt.Errorf("entry type has zero size")
	}
	reader, err := mmap.Open(s.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to map data source %q: %w", s.dataSourceName, err)
	}
	if int64(reader.Len())%s.entrySize != 0 {
		_ = reader.Close()
		return fmt.Errorf("data source %q is not a multiple of the entry size", s.dataSourceName)
	}
	s.reader = reader
	return nil
}

func (s *Source[T]) Close() {
	if s.reader != nil {
		_ = s.reader.Close()
		s.reader = nil
	}
}

// Read copies the entry at index into data. Reading past the mapped region
// reports ErrEof.
func (s *Source[T]) Read(index int64, data *T) error {
	if s.reader == nil {
		return fmt.Errorf("data source %q is not open", s.dataSourceName)
	}

	buffer := s.bufferPool.Get().(*[]byte)
	defer s.bufferPool.Put(buffer)

	n, err := s.reader.ReadAt(*buffer, index*s.entrySize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("unable to read entry %d: %w", index, err)
	}
	if int64(n) < s.entrySize {
		return datasource.ErrEof
	}

	*data = *(*T)(unsafe.Pointer(&(*buffer)[0]))
	return nil
}

func (s *Source[T]) EntryCount() (int64, error) {
	if s.reader == nil {
		return 0, fmt.Errorf("data source %q is not open", s.dataSourceName)
	}
	return int64(s.reader.Len()) / s.entrySize, nil
}
