package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/repos"
	"github.com/contacthub/backend/internal/storage"
	"github.com/contacthub/backend/internal/types"
)

// ContactInput is the submitted field set for create/update calls.
// Photo carries the descriptor the client sent in the body, which is
// not necessarily the one persisted on the record.
type ContactInput struct {
	FirstName string
	LastName  string
	Address   string
	EmailAdd  string
	Number    string
	Favorite  bool
	Photo     types.PhotoInfo
}

// Upload is an in-flight photo blob from a multipart request.
type Upload struct {
	Filename string
	Reader   io.Reader
}

const (
	contactCountCacheKey = "cache:contact_count"
	contactCountCacheTTL = 30 * time.Second
)

type ContactService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input ContactInput, photo *Upload) (*types.Contact, error)
	Update(ctx context.Context, id uuid.UUID, input ContactInput, photo *Upload) (*types.Contact, error)
	SetFields(ctx context.Context, id uuid.UUID, input ContactInput) (*types.Contact, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*types.Contact, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.ContactWithOwner, error)
	FavoritesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.ContactWithOwner, error)
	Info(ctx context.Context) (int64, error)
}

type contactService struct {
	log         *logger.Logger
	contactRepo repos.ContactRepo
	userRepo    repos.UserRepo
	bucket      storage.BucketService
	rdb         *redis.Client
}

// NewContactService wires the contact store, the user store and the
// object storage client together. rdb may be nil; the info counter
// then always hits the database.
func NewContactService(log *logger.Logger, contactRepo repos.ContactRepo, userRepo repos.UserRepo, bucket storage.BucketService, rdb *redis.Client) ContactService {
	return &contactService{
		log:         log.With("service", "ContactService"),
		contactRepo: contactRepo,
		userRepo:    userRepo,
		bucket:      bucket,
		rdb:         rdb,
	}
}

// Create persists a new contact and links it to its owner. The photo
// upload happens before the record is persisted so a stored contact is
// never missing its photo; the owner's reference list is appended
// after the contact is durably created so a failure in between leaves
// an orphaned-but-valid contact rather than a dangling reference.
func (cs *contactService) Create(ctx context.Context, ownerID uuid.UUID, input ContactInput, photo *Upload) (*types.Contact, error) {
	if photo == nil {
		return nil, NewValidationError("Upload Profile Picture")
	}
	if err := validateContactInput(input); err != nil {
		return nil, err
	}

	owner, err := cs.userRepo.GetByID(ctx, nil, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	contactID := uuid.New()
	photoInfo, err := cs.bucket.Upload(ctx, contactPhotoKey(contactID, photo.Filename), photo.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload contact photo: %w", err)
	}

	contact := &types.Contact{
		ID:        contactID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
		EmailAdd:  input.EmailAdd,
		Number:    input.Number,
		Favorite:  input.Favorite,
		OwnerID:   owner.ID,
		Photo:     photoInfo,
	}
	created, err := cs.contactRepo.Create(ctx, nil, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	owner.ContactRefs = append(owner.ContactRefs, created.ID.String())
	if err := cs.userRepo.Save(ctx, nil, owner); err != nil {
		// The contact exists but is unreferenced; the reconciler picks
		// it up on its next pass.
		cs.log.Error("Contact created but owner reference append failed", "contact_id", created.ID, "owner_id", owner.ID, "error", err)
		return nil, fmt.Errorf("failed to link contact to owner: %w", err)
	}

	cs.invalidateCount(ctx)
	return created, nil
}

// Delete removes the contact record, its stored photo object and the
// owner's reference, in that order. A failed object delete does not
// resurrect the record: the reference is removed regardless and the
// storage error is surfaced to the caller afterwards.
func (cs *contactService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	owner, err := cs.userRepo.GetByID(ctx, nil, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load owner: %w", err)
	}

	contact, err := cs.contactRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to load contact: %w", err)
	}

	if err := cs.contactRepo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	storageErr := cs.bucket.Delete(ctx, contact.Photo.Filename)
	if storageErr != nil {
		cs.log.Warn("Contact photo delete failed, record already removed", "contact_id", id, "filename", contact.Photo.Filename, "error", storageErr)
	}

	if owner.RemoveContactRef(id.String()) {
		if err := cs.userRepo.Save(ctx, nil, owner); err != nil {
			return fmt.Errorf("failed to unlink contact from owner: %w", err)
		}
	}

	cs.invalidateCount(ctx)
	if storageErr != nil {
		return fmt.Errorf("contact deleted but photo object remains: %w", storageErr)
	}
	return nil
}

// Update replaces the contact's fields. When a new photo is supplied
// the object named by the submitted descriptor is released first and
// the new blob uploaded in its place; between those two calls the
// record briefly points at a deleted object.
func (cs *contactService) Update(ctx context.Context, id uuid.UUID, input ContactInput, photo *Upload) (*types.Contact, error) {
	if photo != nil {
		if input.Photo.Filename != "" {
			if err := cs.bucket.Delete(ctx, input.Photo.Filename); err != nil {
				return nil, fmt.Errorf("failed to delete old contact photo: %w", err)
			}
		}
		photoInfo, err := cs.bucket.Upload(ctx, contactPhotoKey(id, photo.Filename), photo.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to upload contact photo: %w", err)
		}
		input.Photo = photoInfo
	}
	return cs.replaceFields(ctx, id, input, true)
}

// SetFields is the photo-less variant backing the favorite toggle. The
// whole submitted field set overwrites the record even when the caller
// only means to flip Favorite.
func (cs *contactService) SetFields(ctx context.Context, id uuid.UUID, input ContactInput) (*types.Contact, error) {
	return cs.replaceFields(ctx, id, input, false)
}

func (cs *contactService) replaceFields(ctx context.Context, id uuid.UUID, input ContactInput, withPhoto bool) (*types.Contact, error) {
	if err := validateContactInput(input); err != nil {
		return nil, err
	}

	contact, err := cs.contactRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Address = input.Address
	contact.EmailAdd = input.EmailAdd
	contact.Number = input.Number
	contact.Favorite = input.Favorite
	if withPhoto {
		contact.Photo = input.Photo
	}

	if err := cs.contactRepo.Save(ctx, nil, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact: %w", err)
	}
	return contact, nil
}

func (cs *contactService) Get(ctx context.Context, id uuid.UUID) (*types.Contact, error) {
	contact, err := cs.contactRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}
	return contact, nil
}

func (cs *contactService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.ContactWithOwner, error) {
	contacts, err := cs.contactRepo.GetByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return cs.projectOwner(ctx, ownerID, contacts)
}

func (cs *contactService) FavoritesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.ContactWithOwner, error) {
	contacts, err := cs.contactRepo.GetFavoritesByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite contacts: %w", err)
	}
	return cs.projectOwner(ctx, ownerID, contacts)
}

// projectOwner attaches the owner's public identity fields to each
// returned contact.
func (cs *contactService) projectOwner(ctx context.Context, ownerID uuid.UUID, contacts []*types.Contact) ([]*types.ContactWithOwner, error) {
	owner, err := cs.userRepo.GetByID(ctx, nil, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	ref := types.OwnerRef{ID: owner.ID, Username: owner.Username, Name: owner.Name}

	results := make([]*types.ContactWithOwner, 0, len(contacts))
	for _, contact := range contacts {
		results = append(results, &types.ContactWithOwner{Contact: *contact, Owner: ref})
	}
	return results, nil
}

// Info returns the total number of stored contacts, serving it from
// the Redis cache when possible.
func (cs *contactService) Info(ctx context.Context) (int64, error) {
	if cs.rdb != nil {
		cached, err := cs.rdb.Get(ctx, contactCountCacheKey).Result()
		if err == nil {
			if n, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return n, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			cs.log.Warn("Contact count cache read failed", "error", err)
		}
	}

	count, err := cs.contactRepo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	if cs.rdb != nil {
		if err := cs.rdb.Set(ctx, contactCountCacheKey, count, contactCountCacheTTL).Err(); err != nil {
			cs.log.Warn("Contact count cache write failed", "error", err)
		}
	}
	return count, nil
}

func (cs *contactService) invalidateCount(ctx context.Context) {
	if cs.rdb == nil {
		return
	}
	if err := cs.rdb.Del(ctx, contactCountCacheKey).Err(); err != nil {
		cs.log.Warn("Contact count cache invalidation failed", "error", err)
	}
}

// contactPhotoKey builds a versioned object key so replaced photos
// never collide with CDN-cached predecessors.
func contactPhotoKey(contactID uuid.UUID, originalName string) string {
	return fmt.Sprintf("contact_photo/%s/%d%s", contactID.String(), time.Now().UnixNano(), path.Ext(originalName))
}
