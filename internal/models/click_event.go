package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClickTable is the backing table for ClickEvent records.
const ClickTable = "link_clicks"

// Link type values recorded with click events. The gallery type maps to the
// profile's drive_link field.
const (
	LinkPhone         = "phone"
	LinkWhatsapp      = "whatsapp"
	LinkWebsite       = "website"
	LinkFacebook      = "facebook"
	LinkInstagram     = "instagram"
	LinkYoutube       = "youtube"
	LinkLinkedin      = "linkedin"
	LinkGoogleReviews = "google_reviews"
	LinkUpi           = "upi"
	LinkMaps          = "maps"
	LinkGallery       = "gallery"
)

// KnownLinkTypes lists every link category a click event may carry.
var KnownLinkTypes = []string{
	LinkPhone, LinkWhatsapp, LinkWebsite, LinkFacebook, LinkInstagram,
	LinkYoutube, LinkLinkedin, LinkGoogleReviews, LinkUpi, LinkMaps,
	LinkGallery,
}

// IsKnownLinkType reports whether linkType is one of the link categories.
func IsKnownLinkType(linkType string) bool {
	for _, t := range KnownLinkTypes {
		if t == linkType {
			return true
		}
	}
	return false
}

// ClickEvent is one logged activation of a link on a public profile.
// Rows are append-only: created by visitors, never updated, deleted only
// when the owning profile is deleted.
type ClickEvent struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:varchar(36);not null;index;column:social_media_data_id" json:"social_media_data_id"`
	LinkType  string    `gorm:"size:50;not null" json:"link_type"`
	LinkValue string    `gorm:"size:512" json:"link_value"`
	CreatedAt time.Time `json:"created_at"`
}

func (ClickEvent) TableName() string {
	return ClickTable
}

func (e *ClickEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
