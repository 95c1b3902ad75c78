package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func newTestOwner(userRepo *fakeUserRepo) *types.User {
	owner := &types.User{
		ID:          uuid.New(),
		Username:    "ada",
		Name:        "Ada Lovelace",
		Photo:       types.DefaultPhoto(),
		ContactRefs: []string{},
	}
	userRepo.put(owner)
	return owner
}

func newContactFixture(t *testing.T) (*contactService, *fakeUserRepo, *fakeContactRepo, *fakeBucket, *types.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	contactRepo := newFakeContactRepo()
	bucket := &fakeBucket{}
	owner := newTestOwner(userRepo)
	svc := NewContactService(testLogger(t), contactRepo, userRepo, bucket, nil).(*contactService)
	return svc, userRepo, contactRepo, bucket, owner
}

func TestCreateContactAppendsOwnerRefOnce(t *testing.T) {
	svc, userRepo, contactRepo, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.OwnerID != owner.ID {
		t.Fatalf("owner id: want=%s got=%s", owner.ID, created.OwnerID)
	}
	if len(bucket.uploads) != 1 {
		t.Fatalf("upload count: want=1 got=%d", len(bucket.uploads))
	}
	if _, err := contactRepo.GetByID(context.Background(), nil, created.ID); err != nil {
		t.Fatalf("contact not persisted: %v", err)
	}

	saved, err := userRepo.GetByID(context.Background(), nil, owner.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	refCount := 0
	for _, ref := range saved.ContactRefs {
		if ref == created.ID.String() {
			refCount++
		}
	}
	if refCount != 1 {
		t.Fatalf("owner ref count: want=1 got=%d", refCount)
	}
}

func TestCreateContactRequiresPhoto(t *testing.T) {
	svc, _, contactRepo, bucket, owner := newContactFixture(t)

	_, err := svc.Create(context.Background(), owner.ID, validInput(), nil)
	if err == nil {
		t.Fatalf("Create: expected error without photo")
	}
	if !IsValidation(err) {
		t.Fatalf("Create: expected validation error, got %v", err)
	}
	if err.Error() != "Upload Profile Picture" {
		t.Fatalf("message: want=%q got=%q", "Upload Profile Picture", err.Error())
	}
	if len(bucket.uploads) != 0 {
		t.Fatalf("upload count: want=0 got=%d", len(bucket.uploads))
	}
	if n, _ := contactRepo.Count(context.Background(), nil); n != 0 {
		t.Fatalf("contact count: want=0 got=%d", n)
	}
}

func TestCreateContactValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactInput)
		wantMsg string
	}{
		{
			name:    "missing first name reported before later violations",
			mutate:  func(in *ContactInput) { in.FirstName = ""; in.EmailAdd = "bogus"; in.Number = "1" },
			wantMsg: "Enter First Name",
		},
		{
			name:    "missing last name",
			mutate:  func(in *ContactInput) { in.LastName = ""; in.Number = "1" },
			wantMsg: "Enter Last Name",
		},
		{
			name:    "missing address",
			mutate:  func(in *ContactInput) { in.Address = "" },
			wantMsg: "Enter Address",
		},
		{
			name:    "email without domain dot",
			mutate:  func(in *ContactInput) { in.EmailAdd = "ada@examplecom" },
			wantMsg: "Enter a valid email address",
		},
		{
			name:    "email with whitespace",
			mutate:  func(in *ContactInput) { in.EmailAdd = "ada lovelace@example.com" },
			wantMsg: "Enter a valid email address",
		},
		{
			name:    "number too short",
			mutate:  func(in *ContactInput) { in.Number = "0917123456" },
			wantMsg: "Enter a valid mobile number",
		},
		{
			name:    "number too long",
			mutate:  func(in *ContactInput) { in.Number = "091712345678" },
			wantMsg: "Enter a valid mobile number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, bucket, owner := newContactFixture(t)
			input := validInput()
			tt.mutate(&input)

			_, err := svc.Create(context.Background(), owner.ID, input, testPhoto())
			if err == nil {
				t.Fatalf("Create: expected validation error")
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("message: want=%q got=%q", tt.wantMsg, err.Error())
			}
			if len(bucket.uploads) != 0 {
				t.Fatalf("upload count: want=0 got=%d", len(bucket.uploads))
			}
		})
	}
}

func TestDeleteContactRemovesRowRefAndPhoto(t *testing.T) {
	svc, userRepo, contactRepo, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), owner.ID, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := contactRepo.GetByID(context.Background(), nil, created.ID); err == nil {
		t.Fatalf("contact still present after delete")
	}
	saved, _ := userRepo.GetByID(context.Background(), nil, owner.ID)
	if saved.HasContactRef(created.ID.String()) {
		t.Fatalf("owner still references deleted contact")
	}
	if len(bucket.deletes) != 1 || bucket.deletes[0] != created.Photo.Filename {
		t.Fatalf("bucket deletes: want=[%s] got=%v", created.Photo.Filename, bucket.deletes)
	}
}

func TestDeleteContactProceedsWhenBucketDeleteFails(t *testing.T) {
	svc, userRepo, contactRepo, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bucket.deleteErr = errors.New("bucket unavailable")
	err = svc.Delete(context.Background(), owner.ID, created.ID)
	if err == nil {
		t.Fatalf("Delete: expected storage error to surface")
	}
	if !strings.Contains(err.Error(), "bucket unavailable") {
		t.Fatalf("error: want storage cause, got %v", err)
	}

	// The record and the owner reference are gone regardless.
	if _, err := contactRepo.GetByID(context.Background(), nil, created.ID); err == nil {
		t.Fatalf("contact still present after failed bucket delete")
	}
	saved, _ := userRepo.GetByID(context.Background(), nil, owner.ID)
	if saved.HasContactRef(created.ID.String()) {
		t.Fatalf("owner still references deleted contact")
	}
}

func TestDeleteContactMissingID(t *testing.T) {
	svc, _, _, _, owner := newContactFixture(t)

	err := svc.Delete(context.Background(), owner.ID, uuid.New())
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("Delete: want=%v got=%v", ErrContactNotFound, err)
	}
}

func TestUpdateContactReplacesPhotoUsingSubmittedFilename(t *testing.T) {
	svc, _, _, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	input := validInput()
	input.FirstName = "Augusta"
	// The delete targets the filename the client submitted, not the
	// one on the persisted record.
	input.Photo = types.PhotoInfo{URL: "https://bucket.test/stale", Filename: "stale-key"}

	updated, err := svc.Update(context.Background(), created.ID, input, testPhoto())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(bucket.deletes) != 1 || bucket.deletes[0] != "stale-key" {
		t.Fatalf("bucket deletes: want=[stale-key] got=%v", bucket.deletes)
	}
	if len(bucket.uploads) != 2 {
		t.Fatalf("upload count: want=2 got=%d", len(bucket.uploads))
	}
	if updated.Photo.Filename == "stale-key" || updated.Photo.Filename == created.Photo.Filename {
		t.Fatalf("photo not replaced: %q", updated.Photo.Filename)
	}
	if updated.FirstName != "Augusta" {
		t.Fatalf("first name: want=%q got=%q", "Augusta", updated.FirstName)
	}
}

func TestUpdateContactWithoutPhotoKeepsSubmittedDescriptor(t *testing.T) {
	svc, _, _, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	uploadsBefore := len(bucket.uploads)

	input := validInput()
	input.Photo = created.Photo
	input.Favorite = true

	updated, err := svc.Update(context.Background(), created.ID, input, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(bucket.uploads) != uploadsBefore || len(bucket.deletes) != 0 {
		t.Fatalf("bucket touched without new photo: uploads=%d deletes=%d", len(bucket.uploads), len(bucket.deletes))
	}
	if updated.Photo != created.Photo {
		t.Fatalf("photo descriptor changed: want=%+v got=%+v", created.Photo, updated.Photo)
	}
	if !updated.Favorite {
		t.Fatalf("favorite flag not applied")
	}
}

func TestUpdateContactMissingID(t *testing.T) {
	svc, _, _, _, _ := newContactFixture(t)

	input := validInput()
	input.Photo = types.PhotoInfo{Filename: "whatever"}
	_, err := svc.Update(context.Background(), uuid.New(), input, nil)
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("Update: want=%v got=%v", ErrContactNotFound, err)
	}
}

func TestSetFieldsFlipsFavoriteWithoutPhotoHandling(t *testing.T) {
	svc, _, _, bucket, owner := newContactFixture(t)

	created, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	uploadsBefore := len(bucket.uploads)

	input := validInput()
	input.Favorite = true
	input.Photo = types.PhotoInfo{URL: "ignored", Filename: "ignored"}

	updated, err := svc.SetFields(context.Background(), created.ID, input)
	if err != nil {
		t.Fatalf("SetFields: %v", err)
	}
	if !updated.Favorite {
		t.Fatalf("favorite flag not applied")
	}
	// Photo handling is skipped entirely on this path.
	if updated.Photo != created.Photo {
		t.Fatalf("photo descriptor changed: want=%+v got=%+v", created.Photo, updated.Photo)
	}
	if len(bucket.uploads) != uploadsBefore || len(bucket.deletes) != 0 {
		t.Fatalf("bucket touched on favorite toggle: uploads=%d deletes=%d", len(bucket.uploads), len(bucket.deletes))
	}
}

func TestSetFieldsMissingIDCreatesNothing(t *testing.T) {
	svc, _, contactRepo, _, _ := newContactFixture(t)

	_, err := svc.SetFields(context.Background(), uuid.New(), validInput())
	if !errors.Is(err, ErrContactNotFound) {
		t.Fatalf("SetFields: want=%v got=%v", ErrContactNotFound, err)
	}
	if n, _ := contactRepo.Count(context.Background(), nil); n != 0 {
		t.Fatalf("contact count: want=0 got=%d", n)
	}
}

func TestListByOwnerReturnsOnlyCallersContacts(t *testing.T) {
	svc, userRepo, _, _, owner := newContactFixture(t)

	other := &types.User{ID: uuid.New(), Username: "grace", Name: "Grace Hopper", ContactRefs: []string{}}
	userRepo.put(other)

	mine, err := svc.Create(context.Background(), owner.ID, validInput(), testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	otherInput := validInput()
	otherInput.FirstName = "Norma"
	if _, err := svc.Create(context.Background(), other.ID, otherInput, testPhoto()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	contacts, err := svc.ListByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("contact count: want=1 got=%d", len(contacts))
	}
	if contacts[0].ID != mine.ID {
		t.Fatalf("contact id: want=%s got=%s", mine.ID, contacts[0].ID)
	}
	if contacts[0].Owner.Username != "ada" || contacts[0].Owner.Name != "Ada Lovelace" {
		t.Fatalf("owner projection: got=%+v", contacts[0].Owner)
	}
}

func TestFavoritesByOwnerFiltersFavoriteAndOwnership(t *testing.T) {
	svc, userRepo, _, _, owner := newContactFixture(t)

	other := &types.User{ID: uuid.New(), Username: "grace", Name: "Grace Hopper", ContactRefs: []string{}}
	userRepo.put(other)

	plain := validInput()
	if _, err := svc.Create(context.Background(), owner.ID, plain, testPhoto()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fav := validInput()
	fav.FirstName = "Mary"
	fav.Favorite = true
	favorite, err := svc.Create(context.Background(), owner.ID, fav, testPhoto())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	othersFav := validInput()
	othersFav.Favorite = true
	if _, err := svc.Create(context.Background(), other.ID, othersFav, testPhoto()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	contacts, err := svc.FavoritesByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("FavoritesByOwner: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("contact count: want=1 got=%d", len(contacts))
	}
	if contacts[0].ID != favorite.ID {
		t.Fatalf("contact id: want=%s got=%s", favorite.ID, contacts[0].ID)
	}
}

func TestInfoCountsWithoutRedis(t *testing.T) {
	svc, _, _, _, owner := newContactFixture(t)

	for i := 0; i < 3; i++ {
		input := validInput()
		if _, err := svc.Create(context.Background(), owner.ID, input, testPhoto()); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	count, err := svc.Info(context.Background())
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if count != 3 {
		t.Fatalf("count: want=3 got=%d", count)
	}
}
