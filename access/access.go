// Package access holds the dashboard capability table. Navigation and route
// guards both read from it, so what a role sees and what it may open never differ.
package access

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleEditor  Role = "editor"
	RoleUser    Role = "user"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleEditor, RoleUser}

type Section string

const (
	SectionOverview      Section = "overview"
	SectionBookings      Section = "bookings"
	SectionUsers         Section = "users"
	SectionFlightOffers  Section = "flight-offers"
	SectionHotelOffers   Section = "hotel-offers"
	SectionCarOffers     Section = "car-offers"
	SectionDeals         Section = "deals"
	SectionAirlines      Section = "airlines"
	SectionCars          Section = "cars"
	SectionHotels        Section = "hotels"
	SectionTours         Section = "tours"
	SectionBlogs         Section = "blogs"
	SectionPrivacyPolicy Section = "privacy-policy"
	SectionTerms         Section = "terms-and-conditions"
	SectionSettings      Section = "settings"
	SectionProfile       Section = "profile"
)

type entry struct {
	section Section
	roles   []Role
}

// table order is the navigation order
var table = []entry{
	{SectionOverview, []Role{RoleAdmin, RoleManager, RoleEditor, RoleUser}},
	{SectionBookings, []Role{RoleAdmin, RoleManager, RoleUser}},
	{SectionUsers, []Role{RoleAdmin}},
	{SectionFlightOffers, []Role{RoleAdmin, RoleManager}},
	{SectionHotelOffers, []Role{RoleAdmin, RoleManager}},
	{SectionCarOffers, []Role{RoleAdmin, RoleManager}},
	{SectionDeals, []Role{RoleAdmin, RoleManager}},
	{SectionAirlines, []Role{RoleAdmin, RoleManager}},
	{SectionCars, []Role{RoleAdmin, RoleManager}},
	{SectionHotels, []Role{RoleAdmin, RoleManager}},
	{SectionTours, []Role{RoleAdmin, RoleManager}},
	{SectionBlogs, []Role{RoleAdmin, RoleEditor}},
	{SectionPrivacyPolicy, []Role{RoleAdmin, RoleEditor}},
	{SectionTerms, []Role{RoleAdmin, RoleEditor}},
	{SectionSettings, []Role{RoleAdmin}},
	{SectionProfile, []Role{RoleAdmin, RoleManager, RoleEditor, RoleUser}},
}

// NormalizeRole maps any stored or supplied role string onto a known role.
// Unknown or empty values become RoleUser.
func NormalizeRole(raw string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Roles {
		if r == known {
			return r
		}
	}
	return RoleUser
}

func IsPrivileged(role Role) bool {
	role = NormalizeRole(string(role))
	return role == RoleAdmin || role == RoleManager
}

func PermittedRoles(section Section) []Role {
	for _, e := range table {
		if e.section == section {
			out := make([]Role, len(e.roles))
			copy(out, e.roles)
			return out
		}
	}
	return nil
}

// CanAccess reports whether role may open section. Unknown sections are closed.
func CanAccess(section Section, role Role) bool {
	role = NormalizeRole(string(role))
	for _, e := range table {
		if e.section != section {
			continue
		}
		for _, r := range e.roles {
			if r == role {
				return true
			}
		}
		return false
	}
	return false
}

// Visible lists the sections role may open, in navigation order.
func Visible(role Role) []Section {
	out := make([]Section, 0, len(table))
	for _, e := range table {
		if CanAccess(e.section, role) {
			out = append(out, e.section)
		}
	}
	return out
}

func Sections() []Section {
	out := make([]Section, 0, len(table))
	for _, e := range table {
		out = append(out, e.section)
	}
	return out
}

// Matrix returns role -> section -> allowed for the whole table.
func Matrix() map[Role]map[Section]bool {
	m := make(map[Role]map[Section]bool, len(Roles))
	for _, role := range Roles {
		m[role] = make(map[Section]bool, len(table))
		for _, e := range table {
			m[role][e.section] = CanAccess(e.section, role)
		}
	}
	return m
}

// Actor is the authenticated caller as established by the identity provider.
type Actor struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (a Actor) IsPrivileged() bool { return IsPrivileged(a.Role) }

// Owns reports whether email belongs to the actor, ignoring case.
func (a Actor) Owns(email string) bool {
	mine := strings.TrimSpace(a.Email)
	return mine != "" && strings.EqualFold(mine, strings.TrimSpace(email))
}
