package models

import (
	"net/mail"
	"strings"

	"github.com/abdur28/boarding-sky-sub000/access"
)

// User mirrors the identity provider's account; only the role is owned here.
type User struct {
	Base

	Email     string `gorm:"uniqueIndex;size:191" json:"email"`
	FirstName string `gorm:"size:120" json:"firstName"`
	LastName  string `gorm:"size:120" json:"lastName"`
	Role      string `gorm:"size:16;default:user" json:"role"`
	ImageURL  string `gorm:"size:512" json:"imageUrl"`
}

func (u *User) ImageURLs() []string { return nonEmpty(u.ImageURL) }

func (User) SearchColumns() []string {
	return []string{"email", "first_name", "last_name", "role"}
}

func (u *User) Normalize() error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = string(access.NormalizeRole(u.Role))
	return nil
}

func (u *User) Validate() error {
	if err := requireFields("email", u.Email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return invalid("email %q is not valid", u.Email)
	}
	return nil
}
