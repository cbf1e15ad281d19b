package entry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"verifyme-backend/internal/adapter/storage"
	"verifyme-backend/internal/domain/account"
	domain "verifyme-backend/internal/domain/entry"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// UploadFile is one multipart file keyed to the form field it belongs to.
type UploadFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Submitter orchestrates submissions that carry file uploads. Files need
// an entry id before they can be stored, but the real entry must not
// exist until its form_data holds the final file URLs, so the flow runs
// through a temporary entry:
//
//	temp entry -> parallel uploads -> rewrite form_data -> real entry
//	-> claim files -> drop temp entry
//
// A failure in any stage before the real entry exists tears down the
// stored files and the temp entry. Cleanup after the real entry exists
// is best effort and never fails the submission.
type Submitter struct {
	uc    *Usecase
	files domain.FileRepository
	store storage.Store

	// retryDelay spaces the case-id conflict retries; tests shrink it.
	retryDelay time.Duration
}

const submitAttempts = 3

func NewSubmitter(uc *Usecase, files domain.FileRepository, store storage.Store) *Submitter {
	return &Submitter{uc: uc, files: files, store: store, retryDelay: 300 * time.Millisecond}
}

// Submit creates an entry whose form_data references uploaded files.
// Without files it degrades to a plain Create.
func (s *Submitter) Submit(ctx context.Context, actor *account.User, in CreateEntryInput, files []UploadFile) (*EntryDTO, error) {
	if len(files) == 0 {
		return s.uc.Create(ctx, actor, in)
	}

	tempIn := in
	tempIn.temporary = true
	temp, err := s.uc.Create(ctx, actor, tempIn)
	if err != nil {
		return nil, fmt.Errorf("temporary entry: %w", err)
	}

	urls, stored, err := s.uploadAll(ctx, actor, temp.ID, files)
	if err != nil {
		s.teardown(ctx, temp.ID, stored)
		return nil, err
	}

	if in.FormData == nil {
		in.FormData = map[string]any{}
	}
	for field, url := range urls {
		in.FormData[field] = url
	}

	real, err := s.createWithRetry(ctx, actor, in)
	if err != nil {
		s.teardown(ctx, temp.ID, stored)
		return nil, err
	}

	if err := s.files.Claim(ctx, temp.ID, real.ID); err != nil {
		// Real entry exists; files staying on the temp id is recoverable,
		// losing the submission is not.
		log.Printf("submit: claim files for entry %s: %v", real.ID, err)
	}
	s.cleanupTemp(ctx, temp.ID)
	return real, nil
}

// uploadAll stores every file concurrently and records a FieldFile row
// per upload. It returns the URL per field plus the stored paths so the
// caller can tear them down on a later failure.
func (s *Submitter) uploadAll(ctx context.Context, actor *account.User, entryID uuid.UUID, files []UploadFile) (map[string]string, []string, error) {
	var (
		mu     sync.Mutex
		urls   = make(map[string]string, len(files))
		stored []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			path, url, err := s.store.Put(gctx, entryID, f.FieldName, f.Filename, f.ContentType, f.Size, f.Body)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.FieldName, err)
			}
			mu.Lock()
			stored = append(stored, path)
			urls[f.FieldName] = url
			mu.Unlock()

			return s.files.Create(gctx, &domain.FieldFile{
				ID:               uuid.New(),
				FormEntryID:      entryID,
				FieldName:        f.FieldName,
				StoredPath:       path,
				FileURL:          url,
				OriginalFilename: f.Filename,
				FileType:         f.ContentType,
				FileSize:         f.Size,
				IsTemporary:      true,
				UploadedByID:     actor.ID,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stored, err
	}
	return urls, stored, nil
}

// createWithRetry retries the final insert on key conflicts only. The
// per-org case id is claimed inside the create transaction, but a
// concurrent submission against another schema of the same org can still
// collide; a linear backoff and a fresh NextCaseID resolve it.
func (s *Submitter) createWithRetry(ctx context.Context, actor *account.User, in CreateEntryInput) (*EntryDTO, error) {
	var lastErr error
	for attempt := 1; attempt <= submitAttempts; attempt++ {
		dto, err := s.uc.Create(ctx, actor, in)
		if err == nil {
			return dto, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
		if attempt < submitAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.retryDelay):
			}
		}
	}
	return nil, fmt.Errorf("entry insert kept conflicting after %d attempts: %w", submitAttempts, lastErr)
}

// teardown undoes a failed submission: stored blobs, file rows, temp
// entry. Each step is independent so one failure does not mask the rest.
func (s *Submitter) teardown(ctx context.Context, tempID uuid.UUID, stored []string) {
	for _, path := range stored {
		if err := s.store.Remove(ctx, path); err != nil {
			log.Printf("submit: remove stored file %s: %v", path, err)
		}
	}
	if err := s.files.DeleteByEntry(ctx, tempID); err != nil {
		log.Printf("submit: delete file rows for temp entry %s: %v", tempID, err)
	}
	s.cleanupTemp(ctx, tempID)
}

func (s *Submitter) cleanupTemp(ctx context.Context, tempID uuid.UUID) {
	if err := s.uc.entries.Delete(ctx, tempID); err != nil {
		log.Printf("submit: delete temp entry %s: %v", tempID, err)
	}
}

// Attach stores a single file against an existing entry, bypassing the
// temp-entry dance. Backs the standalone field-file upload endpoint.
func (s *Submitter) Attach(ctx context.Context, actor *account.User, entryID uuid.UUID, description string, f UploadFile) (*domain.FieldFile, error) {
	if _, err := s.uc.getScoped(ctx, actor, entryID); err != nil {
		return nil, err
	}
	path, url, err := s.store.Put(ctx, entryID, f.FieldName, f.Filename, f.ContentType, f.Size, f.Body)
	if err != nil {
		return nil, err
	}
	ff := &domain.FieldFile{
		ID:               uuid.New(),
		FormEntryID:      entryID,
		FieldName:        f.FieldName,
		StoredPath:       path,
		FileURL:          url,
		OriginalFilename: f.Filename,
		FileType:         f.ContentType,
		FileSize:         f.Size,
		Description:      description,
		IsTemporary:      false,
		UploadedByID:     actor.ID,
	}
	if err := s.files.Create(ctx, ff); err != nil {
		if rerr := s.store.Remove(ctx, path); rerr != nil {
			log.Printf("attach: remove stored file %s: %v", path, rerr)
		}
		return nil, err
	}
	return ff, nil
}

// ListFiles returns the files attached to an entry the actor can see.
func (s *Submitter) ListFiles(ctx context.Context, actor *account.User, entryID uuid.UUID) ([]domain.FieldFile, error) {
	if _, err := s.uc.getScoped(ctx, actor, entryID); err != nil {
		return nil, err
	}
	return s.files.ListByEntry(ctx, entryID)
}
