// Package report accumulates run statistics. Counters are atomic and
// the error sample is mutex-guarded, so per-file workers can record
// outcomes concurrently without coordination.
package report

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrorKind classifies a recorded failure.
type ErrorKind string

const (
	KindSourceRead      ErrorKind = "source_read"
	KindUnparsable      ErrorKind = "unparsable_filename"
	KindProductNotFound ErrorKind = "product_not_found"
	KindEncoding        ErrorKind = "encoding"
	KindUpload          ErrorKind = "upload"
	KindPersistence     ErrorKind = "persistence"
)

// maxErrorDetails caps the per-error sample kept for the summary.
const maxErrorDetails = 20

// ErrorDetail is one recorded failure for operator diagnostics.
type ErrorDetail struct {
	File    string
	Kind    ErrorKind
	Message string
}

// Report is the single accumulator shared across concurrent per-file
// workers.
type Report struct {
	RunID uuid.UUID

	totalFiles      atomic.Int64
	duplicates      atomic.Int64
	readFailures    atomic.Int64
	parseFailures   atomic.Int64
	matchFailures   atomic.Int64
	encodeFailures  atomic.Int64
	uploadFailures  atomic.Int64
	persistFailures atomic.Int64
	persistedRows   atomic.Int64

	mu      sync.Mutex
	details []ErrorDetail
}

func New() *Report {
	return &Report{RunID: uuid.New()}
}

func (r *Report) AddFiles(n int)         { r.totalFiles.Add(int64(n)) }
func (r *Report) AddDuplicate()          { r.duplicates.Add(1) }
func (r *Report) AddPersistedRows(n int) { r.persistedRows.Add(int64(n)) }

// RecordError counts the failure under its kind and keeps a capped
// sample of detail for the summary.
func (r *Report) RecordError(file string, kind ErrorKind, err error) {
	switch kind {
	case KindSourceRead:
		r.readFailures.Add(1)
	case KindUnparsable:
		r.parseFailures.Add(1)
	case KindProductNotFound:
		r.matchFailures.Add(1)
	case KindEncoding:
		r.encodeFailures.Add(1)
	case KindUpload:
		r.uploadFailures.Add(1)
	case KindPersistence:
		r.persistFailures.Add(1)
	}

	r.mu.Lock()
	if len(r.details) < maxErrorDetails {
		r.details = append(r.details, ErrorDetail{File: file, Kind: kind, Message: err.Error()})
	}
	r.mu.Unlock()
}

func (r *Report) TotalFiles() int64      { return r.totalFiles.Load() }
func (r *Report) Duplicates() int64      { return r.duplicates.Load() }
func (r *Report) ReadFailures() int64    { return r.readFailures.Load() }
func (r *Report) ParseFailures() int64   { return r.parseFailures.Load() }
func (r *Report) MatchFailures() int64   { return r.matchFailures.Load() }
func (r *Report) EncodeFailures() int64  { return r.encodeFailures.Load() }
func (r *Report) UploadFailures() int64  { return r.uploadFailures.Load() }
func (r *Report) PersistFailures() int64 { return r.persistFailures.Load() }
func (r *Report) PersistedRows() int64   { return r.persistedRows.Load() }

// Processed is the number of files that made it through the whole
// per-file stage: everything seen minus skips and failures.
func (r *Report) Processed() int64 {
	return r.totalFiles.Load() - r.duplicates.Load() - r.readFailures.Load() -
		r.parseFailures.Load() - r.matchFailures.Load() -
		r.encodeFailures.Load() - r.uploadFailures.Load()
}

// Details returns a copy of the recorded error sample.
func (r *Report) Details() []ErrorDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorDetail, len(r.details))
	copy(out, r.details)
	return out
}

// Print writes the end-of-run summary. The run always gets here, even
// when most files failed.
func (r *Report) Print() {
	log.Printf("run %s summary:", r.RunID)
	log.Printf("  files seen:          %d", r.TotalFiles())
	log.Printf("  processed:           %d", r.Processed())
	log.Printf("  duplicates skipped:  %d", r.Duplicates())
	log.Printf("  read failures:       %d", r.ReadFailures())
	log.Printf("  parse failures:      %d", r.ParseFailures())
	log.Printf("  match failures:      %d", r.MatchFailures())
	log.Printf("  encode failures:     %d", r.EncodeFailures())
	log.Printf("  upload failures:     %d", r.UploadFailures())
	log.Printf("  persist failures:    %d", r.PersistFailures())
	log.Printf("  rows persisted:      %d", r.PersistedRows())

	details := r.Details()
	if len(details) == 0 {
		return
	}
	log.Printf("  error sample (%d):", len(details))
	for _, d := range details {
		log.Printf("    [%s] %s: %s", d.Kind, d.File, d.Message)
	}
}

// String is a compact one-line form used in tests and log tails.
func (r *Report) String() string {
	return fmt.Sprintf("totalFiles=%d processed=%d skipped=%d errors=%d persisted=%d",
		r.TotalFiles(), r.Processed(), r.Duplicates(),
		r.readFailures.Load()+r.ParseFailures()+r.MatchFailures()+r.EncodeFailures()+r.UploadFailures()+r.PersistFailures(),
		r.PersistedRows())
}
