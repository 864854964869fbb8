package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Airline struct {
	Base

	Name    string `gorm:"size:120;index" json:"name"`
	Code    string `gorm:"size:3;uniqueIndex" json:"code"`
	Country string `gorm:"size:80" json:"country"`
	Logo    string `gorm:"size:512" json:"logo"`
}

var iataAirline = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

func (a *Airline) ImageURLs() []string { return nonEmpty(a.Logo) }

func (Airline) SearchColumns() []string { return []string{"name", "code", "country"} }

func (a *Airline) Normalize() error {
	a.Code = strings.ToUpper(strings.TrimSpace(a.Code))
	return nil
}

func (a *Airline) Validate() error {
	if err := requireFields("name", a.Name, "code", a.Code); err != nil {
		return err
	}
	if !iataAirline.MatchString(a.Code) {
		return invalid("code %q is not an airline code", a.Code)
	}
	return nil
}

type Car struct {
	Base

	Name         string `gorm:"size:120;index" json:"name"`
	Brand        string `gorm:"size:64" json:"brand"`
	Type         string `gorm:"size:32" json:"type"`
	Seats        int    `json:"seats"`
	Transmission string `gorm:"size:16" json:"transmission"`
	Description  string `gorm:"type:text" json:"description"`
	Image        string `gorm:"size:512" json:"image"`
}

func (c *Car) ImageURLs() []string { return nonEmpty(c.Image) }

func (Car) SearchColumns() []string { return []string{"name", "brand", "type"} }

func (c *Car) Validate() error {
	return requireFields("name", c.Name)
}

type Hotel struct {
	Base

	Name        string                      `gorm:"size:191;index" json:"name"`
	City        string                      `gorm:"size:120;index" json:"city"`
	Country     string                      `gorm:"size:80" json:"country"`
	Address     string                      `gorm:"size:255" json:"address"`
	Description string                      `gorm:"type:text" json:"description"`
	Rating      float64                     `json:"rating"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	Images      datatypes.JSONSlice[string] `json:"images"`
}

func (h *Hotel) ImageURLs() []string { return nonEmpty(h.Images...) }

func (Hotel) SearchColumns() []string { return []string{"name", "city", "country"} }

func (h *Hotel) Validate() error {
	if err := requireFields("name", h.Name, "city", h.City); err != nil {
		return err
	}
	if h.Rating < 0 || h.Rating > 5 {
		return invalid("rating must be between 0 and 5")
	}
	return nil
}

type Tour struct {
	Base

	Name         string                      `gorm:"size:191;index" json:"name"`
	Destination  string                      `gorm:"size:120;index" json:"destination"`
	Description  string                      `gorm:"type:text" json:"description"`
	DurationDays int                         `json:"durationDays"`
	Price        float64                     `gorm:"type:decimal(12,2)" json:"price"`
	Currency     string                      `gorm:"size:3" json:"currency"`
	Highlights   datatypes.JSONSlice[string] `json:"highlights"`
	Images       datatypes.JSONSlice[string] `json:"images"`
}

func (t *Tour) ImageURLs() []string { return nonEmpty(t.Images...) }

func (Tour) SearchColumns() []string { return []string{"name", "destination"} }

func (t *Tour) Normalize() error {
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	if t.Currency == "" {
		t.Currency = "USD"
	}
	return nil
}

func (t *Tour) Validate() error {
	if err := requireFields("name", t.Name, "destination", t.Destination); err != nil {
		return err
	}
	if t.Price < 0 || t.DurationDays < 0 {
		return invalid("price and durationDays must not be negative")
	}
	return nil
}

type Blog struct {
	Base

	Title      string                      `gorm:"size:255" json:"title"`
	Slug       string                      `gorm:"size:191;uniqueIndex" json:"slug"`
	Author     string                      `gorm:"size:120" json:"author"`
	Excerpt    string                      `gorm:"size:512" json:"excerpt"`
	Content    string                      `gorm:"type:text" json:"content"`
	CoverImage string                      `gorm:"size:512" json:"coverImage"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Published  bool                        `json:"published"`
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (b *Blog) ImageURLs() []string { return nonEmpty(b.CoverImage) }

func (Blog) SearchColumns() []string { return []string{"title", "author", "slug"} }

func (b *Blog) Normalize() error {
	if strings.TrimSpace(b.Slug) == "" {
		b.Slug = Slugify(b.Title)
	} else {
		b.Slug = Slugify(b.Slug)
	}
	return nil
}

func (b *Blog) Validate() error {
	return requireFields("title", b.Title, "slug", b.Slug, "content", b.Content)
}

type Deal struct {
	Base

	Title           string      `gorm:"size:255" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	Category        BookingType `gorm:"size:16;index" json:"category"`
	DiscountPercent float64     `json:"discountPercent"`
	Link            string      `gorm:"size:512" json:"link"`
	Image           string      `gorm:"size:512" json:"image"`
	ExpiresAt       *time.Time  `json:"expiresAt"`
}

func (d *Deal) ImageURLs() []string { return nonEmpty(d.Image) }

func (Deal) SearchColumns() []string { return []string{"title", "category"} }

func (d *Deal) Normalize() error {
	d.Category = BookingType(strings.ToLower(strings.TrimSpace(string(d.Category))))
	return nil
}

func (d *Deal) Validate() error {
	if err := requireFields("title", d.Title); err != nil {
		return err
	}
	switch d.Category {
	case BookingFlight, BookingHotel, BookingCar, BookingTour:
	default:
		return invalid("category %q is not one of flight, hotel, car, tour", d.Category)
	}
	if d.DiscountPercent < 0 || d.DiscountPercent > 100 {
		return invalid("discountPercent must be between 0 and 100")
	}
	return nil
}
