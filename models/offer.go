package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/abdur28/boarding-sky-sub000/pricing"
)

type OfferStatus string

const (
	OfferAvailable OfferStatus = "available"
	OfferOnRequest OfferStatus = "on_request"
	OfferSoldOut   OfferStatus = "sold_out"
)

// Component names per offer kind. Missing components are stored as zero.
var (
	FlightPriceComponents = []string{"base", "taxes", "fees"}
	HotelPriceComponents  = []string{"baseRate", "taxes", "fees"}
	CarPriceComponents    = []string{"baseRate", "taxes", "fees", "insurance", "extras"}
)

// normalizeOfferStatus defaults to available. Values outside the standard set
// are kept only for provider-sourced offers.
func normalizeOfferStatus(s OfferStatus, provider string) (OfferStatus, error) {
	v := OfferStatus(strings.ToLower(strings.TrimSpace(string(s))))
	switch v {
	case "":
		return OfferAvailable, nil
	case OfferAvailable, OfferOnRequest, OfferSoldOut:
		return v, nil
	}
	if strings.TrimSpace(provider) != "" {
		return v, nil
	}
	return "", invalid("status %q is not one of available, on_request, sold_out", s)
}

func normalizePrice(p *datatypes.JSONType[pricing.Breakdown], components []string) error {
	b, err := pricing.Normalize(p.Data(), components...)
	if err != nil {
		return invalid("%v", err)
	}
	*p = datatypes.NewJSONType(b)
	return nil
}

type Location struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

type FlightSegment struct {
	FlightNumber string    `json:"flightNumber"`
	Carrier      string    `json:"carrier"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	DepartureAt  time.Time `json:"departureAt"`
	ArrivalAt    time.Time `json:"arrivalAt"`
}

type FlightOffer struct {
	Base

	Provider     string                                `gorm:"size:64" json:"provider"`
	Airline      string                                `gorm:"size:120;index" json:"airline"`
	FlightNumber string                                `gorm:"size:16" json:"flightNumber"`
	Origin       string                                `gorm:"size:8;index" json:"origin"`
	Destination  string                                `gorm:"size:8;index" json:"destination"`
	DepartureAt  time.Time                             `json:"departureAt"`
	ArrivalAt    time.Time                             `json:"arrivalAt"`
	CabinClass   string                                `gorm:"size:32" json:"cabinClass"`
	Segments     datatypes.JSONSlice[FlightSegment]    `json:"segments"`
	Price        datatypes.JSONType[pricing.Breakdown] `json:"price"`
	Status       OfferStatus                           `gorm:"size:32;index" json:"status"`
	Images       datatypes.JSONSlice[string]           `json:"images"`
}

func (o *FlightOffer) ImageURLs() []string { return nonEmpty(o.Images...) }

func (FlightOffer) SearchColumns() []string {
	return []string{"airline", "flight_number", "origin", "destination", "provider"}
}

func (o *FlightOffer) Normalize() error {
	o.Origin = strings.ToUpper(strings.TrimSpace(o.Origin))
	o.Destination = strings.ToUpper(strings.TrimSpace(o.Destination))
	st, err := normalizeOfferStatus(o.Status, o.Provider)
	if err != nil {
		return err
	}
	o.Status = st
	return normalizePrice(&o.Price, FlightPriceComponents)
}

func (o *FlightOffer) Validate() error {
	if err := requireFields(
		"airline", o.Airline,
		"flightNumber", o.FlightNumber,
		"origin", o.Origin,
		"destination", o.Destination,
	); err != nil {
		return err
	}
	if o.Origin == o.Destination {
		return invalid("origin and destination must differ")
	}
	if !o.DepartureAt.IsZero() && !o.ArrivalAt.IsZero() && !o.ArrivalAt.After(o.DepartureAt) {
		return invalid("arrivalAt must be after departureAt")
	}
	return nil
}

type HotelRoom struct {
	Type       string `json:"type"`
	Beds       int    `json:"beds"`
	MaxGuests  int    `json:"maxGuests"`
	Refundable bool   `json:"refundable"`
}

type HotelOffer struct {
	Base

	Provider  string                                `gorm:"size:64" json:"provider"`
	HotelName string                                `gorm:"size:191;index" json:"hotelName"`
	City      string                                `gorm:"size:120;index" json:"city"`
	Location  datatypes.JSONType[Location]          `json:"location"`
	Rating    float64                               `json:"rating"`
	Rooms     datatypes.JSONSlice[HotelRoom]        `json:"rooms"`
	Amenities datatypes.JSONSlice[string]           `json:"amenities"`
	Price     datatypes.JSONType[pricing.Breakdown] `json:"price"`
	Status    OfferStatus                           `gorm:"size:32;index" json:"status"`
	Images    datatypes.JSONSlice[string]           `json:"images"`
}

func (o *HotelOffer) ImageURLs() []string { return nonEmpty(o.Images...) }

func (HotelOffer) SearchColumns() []string {
	return []string{"hotel_name", "city", "provider"}
}

func (o *HotelOffer) Normalize() error {
	if strings.TrimSpace(o.City) == "" {
		o.City = o.Location.Data().City
	}
	st, err := normalizeOfferStatus(o.Status, o.Provider)
	if err != nil {
		return err
	}
	o.Status = st
	return normalizePrice(&o.Price, HotelPriceComponents)
}

func (o *HotelOffer) Validate() error {
	if err := requireFields("hotelName", o.HotelName, "city", o.City); err != nil {
		return err
	}
	if o.Rating < 0 || o.Rating > 5 {
		return invalid("rating must be between 0 and 5")
	}
	return nil
}

type CarOffer struct {
	Base

	Provider     string                                `gorm:"size:64" json:"provider"`
	Make         string                                `gorm:"size:64;index" json:"make"`
	Model        string                                `gorm:"size:64" json:"model"`
	Category     string                                `gorm:"size:32" json:"category"`
	Seats        int                                   `json:"seats"`
	Transmission string                                `gorm:"size:16" json:"transmission"`
	Features     datatypes.JSONSlice[string]           `json:"features"`
	Pickup       datatypes.JSONType[Location]          `json:"pickup"`
	Dropoff      datatypes.JSONType[Location]          `json:"dropoff"`
	Price        datatypes.JSONType[pricing.Breakdown] `json:"price"`
	Status       OfferStatus                           `gorm:"size:32;index" json:"status"`
	Images       datatypes.JSONSlice[string]           `json:"images"`
}

func (o *CarOffer) ImageURLs() []string { return nonEmpty(o.Images...) }

func (CarOffer) SearchColumns() []string {
	return []string{"make", "model", "category", "provider"}
}

func (o *CarOffer) Normalize() error {
	st, err := normalizeOfferStatus(o.Status, o.Provider)
	if err != nil {
		return err
	}
	o.Status = st
	return normalizePrice(&o.Price, CarPriceComponents)
}

func (o *CarOffer) Validate() error {
	if err := requireFields("make", o.Make, "model", o.Model); err != nil {
		return err
	}
	if o.Seats < 0 {
		return invalid("seats must not be negative")
	}
	return nil
}
