package model

import (
	"bytes"
	"encoding/json"
)

var jsonNullLiteral = []byte("null")

// WebsiteSummary is a row of the website listing returned by the builder API.
type WebsiteSummary struct {
	ID           string `json:"_id"`
	BusinessType string `json:"business_type"`
	Industry     string `json:"industry"`
	OwnerID      string `json:"owner_id"`
}

// WebsiteRecord is the full website document returned by a single fetch.
type WebsiteRecord struct {
	ID           string         `json:"_id"`
	OwnerID      string         `json:"owner_id"`
	BusinessType string         `json:"business_type"`
	Industry     string         `json:"industry"`
	Content      WebsiteContent `json:"content"`
	HasContent   bool           `json:"-"`
	CreatedAt    string         `json:"created_at,omitempty"`
	LastUpdated  string         `json:"last_updated,omitempty"`
}

type websiteRecordWire struct {
	ID           string          `json:"_id"`
	Owner        string          `json:"owner"`
	OwnerID      string          `json:"owner_id"`
	BusinessType string          `json:"business_type"`
	Industry     string          `json:"industry"`
	Content      json.RawMessage `json:"content"`
	CreatedAt    *string         `json:"created_at"`
	LastUpdated  *string         `json:"last_updated"`
}

// UnmarshalJSON accepts both the "owner" and "owner_id" spellings used by the API.
func (record *WebsiteRecord) UnmarshalJSON(data []byte) error {
	var wire websiteRecordWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	decoded := WebsiteRecord{
		ID:           wire.ID,
		OwnerID:      wire.OwnerID,
		BusinessType: wire.BusinessType,
		Industry:     wire.Industry,
	}
	if decoded.OwnerID == "" {
		decoded.OwnerID = wire.Owner
	}
	if wire.CreatedAt != nil {
		decoded.CreatedAt = *wire.CreatedAt
	}
	if wire.LastUpdated != nil {
		decoded.LastUpdated = *wire.LastUpdated
	}
	if IsPresentJSON(wire.Content) {
		if err := json.Unmarshal(wire.Content, &decoded.Content); err != nil {
			return err
		}
		decoded.HasContent = true
	}

	*record = decoded
	return nil
}

// WebsiteContent is the generated page content of a website.
type WebsiteContent struct {
	Title           string          `json:"title"`
	HeroSection     HeroSection     `json:"hero_section"`
	AboutSection    AboutSection    `json:"about_section"`
	ServicesSection json.RawMessage `json:"services_section,omitempty"`
	ContactSection  ContactSection  `json:"contact_section"`
	Theme           json.RawMessage `json:"theme,omitempty"`
}

// HeroSection holds the hero banner copy.
type HeroSection struct {
	Heading          string `json:"heading"`
	Subheading       string `json:"subheading"`
	ImageDescription string `json:"image_description"`
}

// AboutSection holds the about block copy.
type AboutSection struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// ContactSection holds contact details. Heading is generated and never edited by hand.
type ContactSection struct {
	Heading string `json:"heading,omitempty"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// WebsiteUpdate is the body of a website update request.
type WebsiteUpdate struct {
	Content WebsiteContent `json:"content"`
}

// IsPresentJSON reports whether a raw JSON value carries something other than null.
func IsPresentJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return !bytes.Equal(trimmed, jsonNullLiteral)
}

// CloneJSON returns an independent copy of raw, or nil when raw is absent or null.
func CloneJSON(raw json.RawMessage) json.RawMessage {
	if !IsPresentJSON(raw) {
		return nil
	}
	cloned := make(json.RawMessage, len(raw))
	copy(cloned, raw)
	return cloned
}
