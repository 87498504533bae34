package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkValue(t *testing.T) {
	p := &Profile{
		Phone:     "+911234567890",
		DriveLink: "https://drive.example/folder",
	}

	v, ok := p.LinkValue(LinkPhone)
	assert.True(t, ok)
	assert.Equal(t, "+911234567890", v)

	// The gallery link type reads from the drive_link field.
	v, ok = p.LinkValue(LinkGallery)
	assert.True(t, ok)
	assert.Equal(t, "https://drive.example/folder", v)

	_, ok = p.LinkValue(LinkWebsite)
	assert.False(t, ok, "empty fields are not clickable")

	_, ok = p.LinkValue("telegram")
	assert.False(t, ok, "unknown types are rejected")
}

func TestIsKnownLinkType(t *testing.T) {
	for _, lt := range KnownLinkTypes {
		assert.True(t, IsKnownLinkType(lt), lt)
	}
	assert.False(t, IsKnownLinkType("telegram"))
	assert.False(t, IsKnownLinkType(""))
}
