package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contacthub/backend/internal/types"
)

type fakeUserRepo struct {
	users   map[uuid.UUID]*types.User
	saveErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*types.User)}
}

func (f *fakeUserRepo) put(user *types.User) {
	copied := *user
	f.users[user.ID] = &copied
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	f.put(user)
	return user, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, tx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, tx *gorm.DB, user *types.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.put(user)
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	results := make([]*types.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		results = append(results, &copied)
	}
	return results, nil
}

type fakeContactRepo struct {
	contacts map[uuid.UUID]*types.Contact
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[uuid.UUID]*types.Contact)}
}

func (f *fakeContactRepo) put(contact *types.Contact) {
	copied := *contact
	f.contacts[contact.ID] = &copied
}

func (f *fakeContactRepo) Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) (*types.Contact, error) {
	f.put(contact)
	return contact, nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Contact, error) {
	contact, ok := f.contacts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *contact
	return &copied, nil
}

func (f *fakeContactRepo) GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	for _, contact := range f.contacts {
		if contact.OwnerID == ownerID {
			copied := *contact
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (f *fakeContactRepo) GetFavoritesByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	for _, contact := range f.contacts {
		if contact.OwnerID == ownerID && contact.Favorite {
			copied := *contact
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (f *fakeContactRepo) GetByOwnerIDs(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	for _, ownerID := range ownerIDs {
		owned, _ := f.GetByOwnerID(ctx, tx, ownerID)
		results = append(results, owned...)
	}
	return results, nil
}

func (f *fakeContactRepo) Save(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
	f.put(contact)
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	delete(f.contacts, id)
	return nil
}

func (f *fakeContactRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(f.contacts)), nil
}

func (f *fakeContactRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Contact, error) {
	results := make([]*types.Contact, 0, len(f.contacts))
	for _, contact := range f.contacts {
		copied := *contact
		results = append(results, &copied)
	}
	return results, nil
}

type fakeBucket struct {
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeBucket) Upload(ctx context.Context, key string, file io.Reader) (types.PhotoInfo, error) {
	if f.uploadErr != nil {
		return types.PhotoInfo{}, f.uploadErr
	}
	_, _ = io.Copy(io.Discard, file)
	f.uploads = append(f.uploads, key)
	return types.PhotoInfo{URL: f.PublicURL(key), Filename: key}, nil
}

func (f *fakeBucket) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeBucket) PublicURL(key string) string {
	return fmt.Sprintf("https://bucket.test/%s", key)
}

func testPhoto() *Upload {
	return &Upload{Filename: "cat.png", Reader: bytes.NewReader([]byte("png-bytes"))}
}

func validInput() ContactInput {
	return ContactInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Address:   "12 Analytical Row",
		EmailAdd:  "ada@example.com",
		Number:    "09171234567",
	}
}
