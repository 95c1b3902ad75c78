package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/repos"
	"github.com/contacthub/backend/internal/storage"
	"github.com/contacthub/backend/internal/types"
)

// UserWithContacts is the user listing wire shape: the user record
// with its referenced contacts expanded in place of the raw id list.
type UserWithContacts struct {
	types.User
	Contacts []*types.Contact `json:"contacts"`
}

type UserService interface {
	GetUsers(ctx context.Context) ([]*UserWithContacts, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	AddPhoto(ctx context.Context, userID uuid.UUID, photo *Upload, submittedOldFilename string) (*types.User, error)
}

type userService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	contactRepo repos.ContactRepo
	bucket      storage.BucketService
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, contactRepo repos.ContactRepo, bucket storage.BucketService) UserService {
	return &userService{
		log:         log.With("service", "UserService"),
		userRepo:    userRepo,
		contactRepo: contactRepo,
		bucket:      bucket,
	}
}

func (us *userService) GetUsers(ctx context.Context) ([]*UserWithContacts, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(users))
	for _, user := range users {
		ownerIDs = append(ownerIDs, user.ID)
	}
	contacts, err := us.contactRepo.GetByOwnerIDs(ctx, nil, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	byOwner := make(map[uuid.UUID][]*types.Contact, len(users))
	for _, contact := range contacts {
		byOwner[contact.OwnerID] = append(byOwner[contact.OwnerID], contact)
	}

	results := make([]*UserWithContacts, 0, len(users))
	for _, user := range users {
		expanded := byOwner[user.ID]
		if expanded == nil {
			expanded = []*types.Contact{}
		}
		results = append(results, &UserWithContacts{User: *user, Contacts: expanded})
	}
	return results, nil
}

func (us *userService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// AddPhoto replaces a user's profile photo. The new blob is uploaded
// unconditionally before anything else, so a later failure can leave
// an unreferenced object behind; the shared default placeholder is
// never deleted.
func (us *userService) AddPhoto(ctx context.Context, userID uuid.UUID, photo *Upload, submittedOldFilename string) (*types.User, error) {
	if photo == nil {
		return nil, NewValidationError("Upload Profile Picture")
	}

	photoInfo, err := us.bucket.Upload(ctx, userPhotoKey(userID, photo.Filename), photo.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload user photo: %w", err)
	}

	if submittedOldFilename != "" && submittedOldFilename != types.DefaultPhotoFilename {
		if err := us.bucket.Delete(ctx, submittedOldFilename); err != nil {
			return nil, fmt.Errorf("failed to delete old user photo: %w", err)
		}
	}

	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The freshly uploaded object is orphaned here; the photo
			// lifecycle has no rollback.
			us.log.Warn("User photo uploaded for missing user", "user_id", userID, "filename", photoInfo.Filename)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.Photo = photoInfo
	if err := us.userRepo.Save(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to save user photo: %w", err)
	}
	return user, nil
}

func userPhotoKey(userID uuid.UUID, originalName string) string {
	return fmt.Sprintf("user_avatar/%s/%d%s", userID.String(), time.Now().UnixNano(), path.Ext(originalName))
}
