package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalid = errors.New("validation failed")

// Base carries the identifier and timestamps shared by every document.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Base) GetID() string { return b.ID }
func (b *Base) Meta() *Base   { return b }

// Entity is anything managed through the dashboard catalog actions.
type Entity interface {
	GetID() string
	Meta() *Base
	ImageURLs() []string
}

// Validator is run before a create or update reaches the database.
type Validator interface {
	Validate() error
}

// Normalizer recomputes derived fields (totals, lower-cased keys) before a write.
type Normalizer interface {
	Normalize() error
}

// Searchable names the columns matched by the optional list filter.
type Searchable interface {
	SearchColumns() []string
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// requireFields takes name/value pairs and reports the first blank value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalid("%s is required", pairs[i])
		}
	}
	return nil
}

func nonEmpty(urls ...string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			out = append(out, u)
		}
	}
	return out
}
