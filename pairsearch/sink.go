package pairsearch

import (
	"fmt"
	"io"
	"os"
)

// Sink hands each worker goroutine its own writer, so threads never
// contend on one file handle — the Go analogue of ThreadsOutputFiles's
// one-file-per-thread convention.
type Sink interface {
	WriterFor(threadID int) (io.Writer, error)
	Close() error
}

// StreamSink writes one "<prefix>_thread_NN.tsv" file per thread. With an
// empty prefix it spools to a temp directory instead and concatenates the
// shards to stdout on Close, removing the temp files — matching
// ThreadsOutputFiles' "no prefix given" behavior.
type StreamSink struct {
	prefix  string
	tempDir string
	files   []*os.File
}

// NewStreamSink creates a sink; threads is the number of worker files to
// prepare up front.
func NewStreamSink(prefix string, threads int) (*StreamSink, error) {
	s := &StreamSink{prefix: prefix}
	if prefix == "" {
		dir, err := os.MkdirTemp("", "seqalign-search-")
		if err != nil {
			return nil, fmt.Errorf("pairsearch: creating temp output dir: %w", err)
		}
		s.tempDir = dir
	}
	s.files = make([]*os.File, threads)
	return s, nil
}

func (s *StreamSink) path(threadID int) string {
	name := fmt.Sprintf("%s_thread_%02d.tsv", s.prefix, threadID)
	if s.prefix == "" {
		name = fmt.Sprintf("thread_%02d.tsv", threadID)
	}
	if s.tempDir != "" {
		return s.tempDir + string(os.PathSeparator) + name
	}
	return name
}

// WriterFor lazily opens (and caches) the file for threadID.
func (s *StreamSink) WriterFor(threadID int) (io.Writer, error) {
	if threadID < 0 || threadID >= len(s.files) {
		return nil, fmt.Errorf("pairsearch: thread id %d out of range [0,%d)", threadID, len(s.files))
	}
	if s.files[threadID] == nil {
		f, err := os.Create(s.path(threadID))
		if err != nil {
			return nil, fmt.Errorf("pairsearch: opening output file for thread %d: %w", threadID, err)
		}
		s.files[threadID] = f
	}
	return s.files[threadID], nil
}

// Close closes every opened file. When the sink was spooling to a temp
// directory (no prefix given), it also concatenates the shards to stdout
// and removes the temp directory.
func (s *StreamSink) Close() error {
	var firstErr error
	for _, f := range s.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.tempDir == "" {
		return firstErr
	}
	defer os.RemoveAll(s.tempDir)
	for _, f := range s.files {
		if f == nil {
			continue
		}
		in, err := os.Open(f.Name())
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		_, err = io.Copy(os.Stdout, in)
		in.Close()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
