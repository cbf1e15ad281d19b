package entry

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"verifyme-backend/internal/adapter/storage"
	"verifyme-backend/internal/domain/account"
	domain "verifyme-backend/internal/domain/entry"
	schemaDomain "verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"
	"verifyme-backend/internal/testutil/entrymock"
	"verifyme-backend/internal/testutil/schemamock"
	"verifyme-backend/internal/testutil/uowmock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore records puts and removes; FailField makes one upload fail.
type fakeStore struct {
	mu        sync.Mutex
	puts      []string
	removed   []string
	FailField string
}

func (s *fakeStore) Put(ctx context.Context, entryID uuid.UUID, fieldName, filename, contentType string, size int64, body io.Reader) (string, string, error) {
	if fieldName == s.FailField {
		return "", "", storage.ErrFileTooLarge
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "field-files/" + entryID.String() + "/" + fieldName
	s.puts = append(s.puts, path)
	return path, "/media/" + path, nil
}

func (s *fakeStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, path)
	return nil
}

func uploadSchema(orgID uuid.UUID) *schemaDomain.FormSchema {
	s := verificationSchema(orgID)
	s.Fields = append(s.Fields, schemaDomain.FormField{
		Name: "house_photo", DisplayName: "House Photo", FieldType: schemaDomain.FieldImageUpload, Order: 3,
	})
	return s
}

// submitterEnv tracks every side effect of a submission so tests can
// assert the orchestration order. failCreates makes the first N real
// (non-temporary) inserts collide like a duplicate key would.
type submitterEnv struct {
	sub     *Submitter
	store   *fakeStore
	mu      sync.Mutex
	created []*domain.FormEntry
	deleted []uuid.UUID
	claims  [][2]uuid.UUID
	files   []*domain.FieldFile
}

func newSubmitterEnv(t *testing.T, s *schemaDomain.FormSchema, failCreates int) *submitterEnv {
	t.Helper()
	env := &submitterEnv{store: &fakeStore{}}

	creates := 0
	entries := &entrymock.Repo{
		CreateFn: func(ctx context.Context, e *domain.FormEntry) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			if !e.IsTemporary {
				creates++
				if creates <= failCreates {
					return gorm.ErrDuplicatedKey
				}
			}
			env.created = append(env.created, e)
			return nil
		},
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.deleted = append(env.deleted, id)
			return nil
		},
	}
	files := &entrymock.FileRepo{
		CreateFn: func(ctx context.Context, f *domain.FieldFile) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.files = append(env.files, f)
			return nil
		},
		ClaimFn: func(ctx context.Context, from, to uuid.UUID) error {
			env.mu.Lock()
			defer env.mu.Unlock()
			env.claims = append(env.claims, [2]uuid.UUID{from, to})
			return nil
		},
	}

	schemas := &schemamock.Repo{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
			return s, nil
		},
		GetByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
			return s, nil
		},
		ListByOrganizationFn: func(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]schemaDomain.FormSchema, error) {
			return []schemaDomain.FormSchema{*s}, nil
		},
	}
	unit := uowmock.Passthrough(uow.Repos{Schemas: schemas, Entries: entries, FieldFiles: files})
	uc := NewUsecase(entries, schemas, unit)

	env.sub = NewSubmitter(uc, files, env.store)
	env.sub.retryDelay = time.Millisecond
	return env
}

func TestSubmit_NoFilesPlainCreate(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 0)

	dto, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}, nil)
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if len(env.created) != 1 || env.created[0].IsTemporary {
		t.Fatalf("want one real entry, got %+v", env.created)
	}
	if dto == nil {
		t.Fatal("nil dto")
	}
}

func TestSubmit_UploadsRewriteFormData(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 0)

	dto, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}, []UploadFile{{
		FieldName:   "house_photo",
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Body:        strings.NewReader("jpegbytes"),
	}})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	url, ok := dto.FormData["house_photo"].(string)
	if !ok || !strings.HasPrefix(url, "/media/field-files/") {
		t.Fatalf("house_photo should hold the file URL, got %v", dto.FormData["house_photo"])
	}

	// temp entry first, then real entry; temp cleaned up afterwards
	if len(env.created) != 2 || !env.created[0].IsTemporary || env.created[1].IsTemporary {
		t.Fatalf("temp-then-real creation order broken: %+v", env.created)
	}
	tempID, realID := env.created[0].ID, env.created[1].ID
	if len(env.claims) != 1 || env.claims[0] != [2]uuid.UUID{tempID, realID} {
		t.Fatalf("files not claimed from temp to real: %v", env.claims)
	}
	if len(env.deleted) != 1 || env.deleted[0] != tempID {
		t.Fatalf("temp entry not cleaned up: %v", env.deleted)
	}
	if len(env.files) != 1 || !env.files[0].IsTemporary || env.files[0].FieldName != "house_photo" {
		t.Fatalf("field file row wrong: %+v", env.files)
	}
}

func TestSubmit_UploadFailureTearsDown(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 0)
	env.store.FailField = "house_photo"

	_, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}, []UploadFile{{
		FieldName:   "house_photo",
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        storage.MaxFileSize + 1,
		Body:        strings.NewReader("x"),
	}})
	if !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("want ErrFileTooLarge, got %v", err)
	}

	// only the temp entry was created, and it was deleted again
	if len(env.created) != 1 || !env.created[0].IsTemporary {
		t.Fatalf("no real entry should exist: %+v", env.created)
	}
	if len(env.deleted) != 1 || env.deleted[0] != env.created[0].ID {
		t.Fatalf("temp entry not torn down: %v", env.deleted)
	}
}

func TestSubmit_RetriesCaseIDConflict(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 2) // first two real inserts collide

	dto, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}, []UploadFile{{
		FieldName:   "house_photo",
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        10,
		Body:        strings.NewReader("x"),
	}})
	if err != nil {
		t.Fatalf("Submit should succeed on third attempt: %v", err)
	}
	if dto == nil {
		t.Fatal("nil dto")
	}
}

func TestSubmit_GivesUpAfterThreeConflicts(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 3)

	_, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}, []UploadFile{{
		FieldName:   "house_photo",
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        10,
		Body:        strings.NewReader("x"),
	}})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("want wrapped ErrDuplicatedKey, got %v", err)
	}
	// stored blob removed during teardown
	if len(env.store.removed) != 1 {
		t.Fatalf("stored file should be removed: %v", env.store.removed)
	}
}

func TestSubmit_ValidationFailureTearsDownUploads(t *testing.T) {
	orgID := uuid.New()
	env := newSubmitterEnv(t, uploadSchema(orgID), 0)

	// missing required applicant_name; the temp entry skips validation,
	// the real create fails and everything unwinds
	_, err := env.sub.Submit(context.Background(), testActor(account.RoleEmployee, orgID), CreateEntryInput{
		FormData: map[string]any{},
	}, []UploadFile{{
		FieldName:   "house_photo",
		Filename:    "front.jpg",
		ContentType: "image/jpeg",
		Size:        10,
		Body:        strings.NewReader("x"),
	}})
	var verr *schemaDomain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if len(env.store.removed) != len(env.store.puts) {
		t.Fatalf("uploads not cleaned up: put %v removed %v", env.store.puts, env.store.removed)
	}
}
