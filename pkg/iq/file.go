package iq

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// FileSource reads raw IQ captures: interleaved little-endian float32
// pairs (I then Q), the flat layout used by the capture side of the
// host application. A short trailing fragment is discarded.
type FileSource struct {
	file       *os.File
	reader     *bufio.Reader
	meta       SourceMetadata
	exhausted  bool
	sampleBuf  [8]byte
	samplesOut int64
}

// OpenFile opens a raw capture for reading at the declared sample rate.
func OpenFile(path string, sampleRate int) (*FileSource, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	return &FileSource{
		file:   f,
		reader: bufio.NewReader(f),
		meta: SourceMetadata{
			Name:       filepath.Base(path),
			Type:       SourceTypeFile,
			SampleRate: sampleRate,
		},
	}, nil
}

// Metadata describes the capture.
func (s *FileSource) Metadata() *SourceMetadata {
	return &s.meta
}

// ReadIQ reads up to min(len(i), len(q)) samples. It returns the count
// actually read, with io.EOF once the capture is exhausted. A partial
// final buffer is returned with a nil error; the following call
// reports io.EOF.
func (s *FileSource) ReadIQ(ctx context.Context, i, q []float32) (int, error) {
	if len(i) != len(q) {
		return 0, ErrMismatchedBuffers
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.exhausted {
		return 0, io.EOF
	}
	count := 0
	for count < len(i) {
		if _, err := io.ReadFull(s.reader, s.sampleBuf[:]); err != nil {
			s.exhausted = true
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				if count > 0 {
					return count, nil
				}
				return 0, io.EOF
			}
			return count, fmt.Errorf("failed to read capture: %w", err)
		}
		i[count] = math.Float32frombits(binary.LittleEndian.Uint32(s.sampleBuf[0:4]))
		q[count] = math.Float32frombits(binary.LittleEndian.Uint32(s.sampleBuf[4:8]))
		count++
		s.samplesOut++
	}
	return count, nil
}

// SamplesRead returns the total number of complete samples delivered.
func (s *FileSource) SamplesRead() int64 {
	return s.samplesOut
}

// Close closes the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}
