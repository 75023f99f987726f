package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/custodia-labs/docfiler/internal/core/domain"
	"github.com/custodia-labs/docfiler/internal/core/ports/driven"
	"github.com/custodia-labs/docfiler/internal/core/ports/driving"
	"github.com/custodia-labs/docfiler/internal/logger"
)

// Ensure ProcessingService implements the interface.
var _ driving.ProcessingService = (*ProcessingService)(nil)

// duplicateMessage is the terminal message for a file already in the index.
const duplicateMessage = "Already exists"

// batchJob is the state of one running batch.
type batchJob struct {
	id    string
	total int
	stop  atomic.Bool

	mu      sync.Mutex
	current string
	summary domain.BatchSummary
}

func (j *batchJob) setCurrent(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.current = name
}

func (j *batchJob) record(item domain.ItemResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.current = ""
	j.summary.Record(item)
}

func (j *batchJob) status() domain.BatchStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return domain.BatchStatus{
		Running:       true,
		StopRequested: j.stop.Load(),
		JobID:         j.id,
		Current:       j.current,
		Total:         j.total,
		Succeeded:     j.summary.Succeeded,
		Duplicates:    j.summary.Duplicates,
		Failed:        j.summary.Failed,
		StartedAt:     j.summary.StartedAt,
	}
}

// ProcessingService drives files through extraction, duplicate detection,
// identity resolution and filing, one batch at a time.
type ProcessingService struct {
	extractor driven.Extractor
	index     driven.IndexStore
	filer     driven.DocumentFiler
	resolver  *IdentityResolver
	lock      driven.ProcessLock
	now       func() time.Time
	log       zerolog.Logger

	mu        sync.Mutex
	active    *batchJob
	last      domain.BatchStatus
	observers []driving.ProgressObserver
}

// NewProcessingService creates a new processing service.
// The extractor may be nil, in which case every Process call returns
// domain.ErrExtractorUnavailable.
func NewProcessingService(
	extractor driven.Extractor,
	index driven.IndexStore,
	registry driven.PersonRegistry,
	filer driven.DocumentFiler,
) *ProcessingService {
	return &ProcessingService{
		extractor: extractor,
		index:     index,
		filer:     filer,
		resolver:  NewIdentityResolver(registry),
		now:       time.Now,
		log:       logger.Component("processing"),
	}
}

// SetProcessLock sets the cross-process writer lock held while a batch runs.
func (s *ProcessingService) SetProcessLock(lock driven.ProcessLock) {
	s.lock = lock
}

// Subscribe registers an observer for progress events.
func (s *ProcessingService) Subscribe(observer driving.ProgressObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// ProcessSingle processes one file.
func (s *ProcessingService) ProcessSingle(ctx context.Context, path string) (*domain.BatchSummary, error) {
	return s.ProcessBatch(ctx, []string{path})
}

// ProcessFolder processes the supported images directly inside dir, in
// file name order. Subdirectories are not descended into.
func (s *ProcessingService) ProcessFolder(ctx context.Context, dir string) (*domain.BatchSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return s.ProcessBatch(ctx, paths)
}

// ProcessBatch processes the given files in order.
func (s *ProcessingService) ProcessBatch(ctx context.Context, paths []string) (*domain.BatchSummary, error) {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		if domain.IsSupportedImage(p) {
			files = append(files, p)
		} else {
			s.log.Debug().Str("file", p).Msg("skipping unsupported file")
		}
	}
	if len(files) == 0 {
		return nil, domain.ErrNoSupportedFiles
	}
	if s.extractor == nil {
		return nil, domain.ErrExtractorUnavailable
	}

	job, err := s.begin(len(files))
	if err != nil {
		return nil, err
	}
	defer s.end(job)

	logger.Section("Batch " + job.id)
	s.emit(domain.BatchEvent{Kind: domain.EventBatchStarted, JobID: job.id, Total: job.total})

	var batchErr error
	for i, path := range files {
		if job.stop.Load() || ctx.Err() != nil {
			job.mu.Lock()
			job.summary.Stopped = true
			job.mu.Unlock()
			break
		}
		if err := s.processItem(ctx, job, i+1, path); err != nil {
			batchErr = err
			break
		}
	}

	job.mu.Lock()
	job.summary.FinishedAt = s.now()
	summary := job.summary
	job.mu.Unlock()

	s.emit(domain.BatchEvent{
		Kind:    domain.EventBatchFinished,
		JobID:   job.id,
		Total:   job.total,
		Message: summary.Message(),
		Summary: &summary,
	})

	if batchErr != nil {
		s.log.Error().Err(batchErr).Str("job", job.id).Msg("batch aborted")
		return &summary, batchErr
	}
	s.log.Info().Str("job", job.id).Msg(summary.Message())
	return &summary, nil
}

// Stop requests a cooperative stop of the active batch.
func (s *ProcessingService) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return false
	}
	s.active.stop.Store(true)
	return true
}

// Status returns a snapshot of the active or last batch.
func (s *ProcessingService) Status() domain.BatchStatus {
	s.mu.Lock()
	job := s.active
	last := s.last
	s.mu.Unlock()

	if job != nil {
		return job.status()
	}
	return last
}

// begin registers a new job, rejecting it if one is already active here
// or in another process.
func (s *ProcessingService) begin(total int) (*batchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, domain.ErrBatchInProgress
	}
	if s.lock != nil {
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", s.lock.Path(), err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s is held by another process", domain.ErrBatchInProgress, s.lock.Path())
		}
	}

	job := &batchJob{id: uuid.New().String(), total: total}
	job.summary = domain.BatchSummary{JobID: job.id, Total: total, StartedAt: s.now()}
	s.active = job
	return job, nil
}

func (s *ProcessingService) end(job *batchJob) {
	last := job.status()
	last.Running = false
	last.Current = ""

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.last = last
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn().Err(err).Msg("release lock")
		}
	}
}

// processItem runs one file to a terminal event. Only persistence failures
// are returned; everything else is recorded as a failed item.
func (s *ProcessingService) processItem(ctx context.Context, job *batchJob, index int, path string) error {
	name := filepath.Base(path)
	start := s.now()
	job.setCurrent(name)
	s.emit(domain.BatchEvent{
		Kind:     domain.EventItemStarted,
		JobID:    job.id,
		FileName: name,
		Index:    index,
		Total:    job.total,
		Message:  progressMessage(index, job.total, name),
	})

	finish := func(kind domain.BatchEventKind, status domain.ItemStatus, msg string, rec *domain.DocumentRecord) {
		job.record(domain.ItemResult{FileName: name, SourcePath: path, Status: status, Message: msg, Record: rec})
		s.emit(domain.BatchEvent{
			Kind:     kind,
			JobID:    job.id,
			FileName: name,
			Index:    index,
			Total:    job.total,
			Message:  msg,
			Record:   rec,
			Duration: s.now().Sub(start),
		})
	}
	fail := func(err error) {
		s.log.Warn().Err(err).Str("file", name).Msg("sending to manual review")
		if _, qerr := s.filer.QuarantineForReview(ctx, path); qerr != nil {
			s.log.Error().Err(qerr).Str("file", name).Msg("copy to manual review")
		}
		finish(domain.EventItemFailed, domain.ItemFailed, err.Error(), nil)
	}
	abort := func(err error) error {
		finish(domain.EventItemFailed, domain.ItemFailed, err.Error(), nil)
		return err
	}

	fields, err := s.extract(ctx, path)
	if err != nil {
		fail(err)
		return nil
	}
	folderName := NormaliseName(fields.Name)
	if folderName == "" {
		fail(fmt.Errorf("%w: name %q has no letters A-Z", domain.ErrMissingField, fields.Name))
		return nil
	}

	dup, err := s.index.FindDuplicate(ctx, fields.Name, fields.DocType, fields.DocNumber)
	if err != nil {
		return abort(fmt.Errorf("%w: find duplicate: %w", domain.ErrPersistence, err))
	}
	if dup != nil {
		finish(domain.EventItemDuplicate, domain.ItemDuplicate, duplicateMessage, dup)
		return nil
	}

	folder, err := s.resolver.Resolve(ctx, folderName, fields.DocNumber, fields.DOB)
	if err != nil {
		return abort(err)
	}

	dest, checksum, err := s.filer.File(ctx, path, folder.ID)
	if err != nil {
		fail(asFilingError(err))
		return nil
	}

	rec := domain.DocumentRecord{
		FileName:      name,
		SourcePath:    path,
		FilePath:      dest,
		PersonFolder:  folder.ID,
		ProcessedDate: s.now().UTC(),
		DocType:       fields.DocType,
		Name:          fields.Name,
		DocNumber:     fields.DocNumber,
		DOB:           fields.DOB,
		Gender:        fields.Gender,
		Checksum:      checksum,
	}
	if err := s.filer.WriteSidecar(ctx, &rec); err != nil {
		fail(asFilingError(err))
		return nil
	}
	if err := s.index.AppendOrUpdate(ctx, rec); err != nil {
		return abort(fmt.Errorf("%w: update index: %w", domain.ErrPersistence, err))
	}

	finish(domain.EventItemSucceeded, domain.ItemSucceeded, fmt.Sprintf("%s - %s", rec.Name, rec.DocType), &rec)
	return nil
}

// extract calls the extractor and cleans and validates its result.
func (s *ProcessingService) extract(ctx context.Context, path string) (*domain.ExtractedFields, error) {
	fields, err := s.extractor.Extract(ctx, path)
	if err != nil {
		if !errors.Is(err, domain.ErrExtraction) {
			err = fmt.Errorf("%w: %w", domain.ErrExtraction, err)
		}
		return nil, err
	}
	if fields == nil {
		return nil, domain.ErrMalformedResponse
	}
	fields.Clean()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *ProcessingService) emit(event domain.BatchEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.mu.Lock()
	observers := append([]driving.ProgressObserver(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.OnEvent(event)
	}
}

func asFilingError(err error) error {
	if errors.Is(err, domain.ErrFiling) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrFiling, err)
}

func progressMessage(index, total int, name string) string {
	if total > 1 {
		return fmt.Sprintf("[%d/%d] Processing: %s...", index, total, name)
	}
	return fmt.Sprintf("Processing: %s...", name)
}
