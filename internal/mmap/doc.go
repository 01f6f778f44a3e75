// Package mmap provides read-only memory-mapped file access.
//
// Model artifacts (phrase tables, language models) are mapped rather than
// read so that decompression and parsing work directly on the page cache.
//
//	m, err := mmap.Open("phrase-table.txt")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// On platforms without mmap(2) the file is read into memory instead; the
// API is identical.
//
// Mapping is safe for concurrent reads. Close is idempotent, but callers
// must ensure no goroutine touches Bytes() after Close returns.
package mmap
