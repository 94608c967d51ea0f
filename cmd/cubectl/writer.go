package main

import (
	"io"
	"sync"
)

// switchWriter forwards to a writer that can be replaced once the prompt
// exists.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
