package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/models"
	"github.com/tapfolio/backend/internal/types"
)

var (
	ErrNotFound       = errors.New("profile not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// DefaultPageSize is the admin console page size.
const DefaultPageSize = 5

// ProfilePage is one page of a filtered profile partition.
type ProfilePage struct {
	Items      []models.Profile `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
}

// ProfileListing is the admin console view: the filtered profiles split into
// verified and pending partitions, each paginated independently.
type ProfileListing struct {
	Verified ProfilePage `json:"verified"`
	Pending  ProfilePage `json:"pending"`
}

// ProfileService handles profile records: CRUD, verification, the cascade
// delete, and the admin console listing.
type ProfileService struct {
	db       *gorm.DB
	notifier ChangePublisher
	pageSize int
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, notifier ChangePublisher) *ProfileService {
	return &ProfileService{
		db:       db,
		notifier: notifier,
		pageSize: DefaultPageSize,
	}
}

// GetProfile retrieves one profile by ID.
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// GetProfileByEmail retrieves one profile by its login email.
func (s *ProfileService) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// CreateProfile inserts a new profile. Email uniqueness is checked before
// the insert so callers get ErrDuplicateEmail instead of a driver error.
func (s *ProfileService) CreateProfile(ctx context.Context, profile *models.Profile) error {
	var existing models.Profile
	if err := s.db.WithContext(ctx).Where("email = ?", profile.Email).First(&existing).Error; err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.publish(ctx, ActionInsert, profile.ID)
	return nil
}

// UpdateProfile applies the owner-editable fields. Nil fields are left
// untouched; identity, verification and admin state are not reachable here.
func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, req *types.UpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	applyProfileUpdates(&profile, req)

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.publish(ctx, ActionUpdate, profile.ID)
	return &profile, nil
}

// AdminUpdateProfile applies an admin edit, which may also change email,
// verification and admin state.
func (s *ProfileService) AdminUpdateProfile(ctx context.Context, id uuid.UUID, req *types.AdminUpdateProfileRequest) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	applyProfileUpdates(&profile, &req.UpdateProfileRequest)
	if req.Email != nil && *req.Email != profile.Email {
		var existing models.Profile
		if err := s.db.WithContext(ctx).Where("email = ?", *req.Email).First(&existing).Error; err == nil {
			return nil, ErrDuplicateEmail
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		profile.Email = *req.Email
	}
	// Verification only moves forward; an edit cannot re-lock a verified
	// profile back to pending.
	if req.IsVerified != nil && *req.IsVerified {
		profile.IsVerified = true
	}
	if req.IsAdmin != nil {
		profile.IsAdmin = *req.IsAdmin
	}

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.publish(ctx, ActionUpdate, profile.ID)
	return &profile, nil
}

// Verify promotes a profile from pending to verified. Re-verifying an
// already-verified profile is a no-op success.
func (s *ProfileService) Verify(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if profile.IsVerified {
		return &profile, nil
	}

	profile.IsVerified = true
	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to verify profile: %w", err)
	}

	s.publish(ctx, ActionUpdate, profile.ID)
	return &profile, nil
}

// Delete removes a profile and every click event referencing it, atomically.
// If either delete fails the transaction rolls back and both stay intact.
func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("social_media_data_id = ?", id).Delete(&models.ClickEvent{}).Error; err != nil {
			return fmt.Errorf("failed to delete click events: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Profile{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete profile: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, ActionDelete, id)
	return nil
}

// ListProfiles applies the admin console filter and returns the verified and
// pending partitions, each paginated at the fixed page size. The page index
// is clamped to the last page of each partition.
func (s *ProfileService) ListProfiles(ctx context.Context, filter types.ProfileFilter) (*ProfileListing, error) {
	q := s.db.WithContext(ctx).Model(&models.Profile{}).Order("created_at DESC")

	if filter.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var profiles []models.Profile
	if err := q.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	verified := make([]models.Profile, 0)
	pending := make([]models.Profile, 0)
	for _, p := range profiles {
		if p.IsVerified {
			verified = append(verified, p)
		} else {
			pending = append(pending, p)
		}
	}

	return &ProfileListing{
		Verified: paginate(verified, filter.Page, s.pageSize),
		Pending:  paginate(pending, filter.Page, s.pageSize),
	}, nil
}

func (s *ProfileService) publish(ctx context.Context, action string, id uuid.UUID) {
	if s.notifier == nil {
		return
	}
	ev := ChangeEvent{Table: models.ProfileTable, Action: action, ID: id}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		// Mirroring is best-effort; the write already succeeded.
		log.Printf("[ProfileService] Failed to publish %s notification for %s: %v", action, id, err)
	}
}

func applyProfileUpdates(profile *models.Profile, req *types.UpdateProfileRequest) {
	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Designation != nil {
		profile.Designation = *req.Designation
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Whatsapp != nil {
		profile.Whatsapp = *req.Whatsapp
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.Facebook != nil {
		profile.Facebook = *req.Facebook
	}
	if req.Instagram != nil {
		profile.Instagram = *req.Instagram
	}
	if req.Youtube != nil {
		profile.Youtube = *req.Youtube
	}
	if req.Linkedin != nil {
		profile.Linkedin = *req.Linkedin
	}
	if req.GoogleReviews != nil {
		profile.GoogleReviews = *req.GoogleReviews
	}
	if req.Upi != nil {
		profile.Upi = *req.Upi
	}
	if req.Maps != nil {
		profile.Maps = *req.Maps
	}
	if req.DriveLink != nil {
		profile.DriveLink = *req.DriveLink
	}
	if req.Avatar != nil {
		profile.Avatar = *req.Avatar
	}
	if req.BackgroundImage != nil {
		profile.BackgroundImage = *req.BackgroundImage
	}
}

// paginate slices one partition to the requested page. Pages are 1-based;
// the index is clamped to [1, totalPages] and an empty partition yields a
// single empty page.
func paginate(items []models.Profile, page, size int) ProfilePage {
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return ProfilePage{
		Items:      items[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}
