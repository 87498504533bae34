package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileTable is the backing table for Profile records.
const ProfileTable = "social_media_data"

// Profile is one business-card record: login identity, contact and social
// links, and verification state.
type Profile struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Email           string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Designation     string    `gorm:"size:255" json:"designation"`
	Phone           string    `gorm:"size:50" json:"phone"`
	Whatsapp        string    `gorm:"size:50" json:"whatsapp"`
	Website         string    `gorm:"size:512" json:"website"`
	Facebook        string    `gorm:"size:512" json:"facebook"`
	Instagram       string    `gorm:"size:512" json:"instagram"`
	Youtube         string    `gorm:"size:512" json:"youtube"`
	Linkedin        string    `gorm:"size:512" json:"linkedin"`
	GoogleReviews   string    `gorm:"size:512;column:google_reviews" json:"google_reviews"`
	Upi             string    `gorm:"size:255" json:"upi"`
	Maps            string    `gorm:"size:512" json:"maps"`
	DriveLink       string    `gorm:"size:512;column:drive_link" json:"drive_link"`
	Avatar          string    `gorm:"size:512" json:"avatar"`
	BackgroundImage string    `gorm:"size:512;column:background_image" json:"background_image"`
	IsVerified      bool      `gorm:"not null;default:false" json:"is_verified"`
	IsAdmin         bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return ProfileTable
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LinkValue returns the stored value for a link type and whether the
// profile has that link set. Unset links are never rendered and never
// accept clicks.
func (p *Profile) LinkValue(linkType string) (string, bool) {
	var v string
	switch linkType {
	case LinkPhone:
		v = p.Phone
	case LinkWhatsapp:
		v = p.Whatsapp
	case LinkWebsite:
		v = p.Website
	case LinkFacebook:
		v = p.Facebook
	case LinkInstagram:
		v = p.Instagram
	case LinkYoutube:
		v = p.Youtube
	case LinkLinkedin:
		v = p.Linkedin
	case LinkGoogleReviews:
		v = p.GoogleReviews
	case LinkUpi:
		v = p.Upi
	case LinkMaps:
		v = p.Maps
	case LinkGallery:
		v = p.DriveLink
	default:
		return "", false
	}
	return v, v != ""
}
