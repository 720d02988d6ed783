package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SocialLink is an ordered link shown on a company's public page.
type SocialLink struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CompanyID  uint      `gorm:"not null;index" json:"company_id"`
	Company    Company   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Title      string    `gorm:"not null" json:"title"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	Position   int       `gorm:"not null;default:0;index" json:"position"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	Platform   *string   `gorm:"type:varchar(30)" json:"platform"` // nil for custom links
	ClickCount int64     `gorm:"default:0" json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (SocialLink) TableName() string {
	return "social_links"
}

func (l *SocialLink) ResourceID() uint          { return l.ID }
func (l *SocialLink) SetResourceID(id uint)     { l.ID = id }
func (l *SocialLink) ResourceTitle() string     { return l.Title }
func (l *SocialLink) SetResourceTitle(t string) { l.Title = t }
func (l *SocialLink) Active() bool              { return l.IsActive }
func (l *SocialLink) SetActive(active bool)     { l.IsActive = active }
func (l *SocialLink) SetPosition(position int)  { l.Position = position }
func (l *SocialLink) ResetCounters()            { l.ClickCount = 0 }
func (l *SocialLink) OwningCompanyID() uint     { return l.CompanyID }

// SocialLinkEntry is a pending {platform, url} pair that has no id or position yet.
type SocialLinkEntry struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SocialLinkSet is the social link list persisted on a company row.
//
// Rows written by older clients hold either an association list
// ([{"platform":"instagram","url":"..."}]) or a flat object
// ({"instagram":"..."}). Scan accepts both; Value always writes the flat object.
type SocialLinkSet []SocialLinkEntry

// Value implements driver.Valuer
func (s SocialLinkSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Platform)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// Scan implements sql.Scanner
func (s *SocialLinkSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan SocialLinkSet from %T", value)
	}
	*s = DecodeSocialLinks(raw)
	return nil
}

// DecodeSocialLinks normalizes either stored shape into entries. Malformed
// input yields an empty set; entries without a platform or url are dropped.
func DecodeSocialLinks(raw []byte) SocialLinkSet {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var out SocialLinkSet
	switch raw[0] {
	case '[':
		var list []SocialLinkEntry
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil
		}
		for _, entry := range list {
			out = out.with(entry.Platform, entry.URL)
		}
	case '{':
		entries, err := decodeOrderedObject(raw)
		if err != nil {
			return nil
		}
		for _, entry := range entries {
			out = out.with(entry.Platform, entry.URL)
		}
	}
	return out
}

// decodeOrderedObject walks a JSON object keeping key order, which
// encoding/json maps would lose.
func decodeOrderedObject(raw []byte) ([]SocialLinkEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var entries []SocialLinkEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("social links: non-string key")
		}
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		if url, ok := val.(string); ok {
			entries = append(entries, SocialLinkEntry{Platform: key, URL: url})
		}
	}
	return entries, nil
}

func (s SocialLinkSet) with(platform, url string) SocialLinkSet {
	platform = strings.TrimSpace(platform)
	url = strings.TrimSpace(url)
	if platform == "" || url == "" {
		return s
	}
	for i := range s {
		if s[i].Platform == platform {
			s[i].URL = url
			return s
		}
	}
	return append(s, SocialLinkEntry{Platform: platform, URL: url})
}

// Has reports whether the set already contains platform.
func (s SocialLinkSet) Has(platform string) bool {
	for _, entry := range s {
		if entry.Platform == platform {
			return true
		}
	}
	return false
}
