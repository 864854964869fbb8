package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/controllers"
	"github.com/abdur28/boarding-sky-sub000/models"
	"github.com/abdur28/boarding-sky-sub000/services"
)

type CatalogHandlers interface {
	List(c *gin.Context)
	Update(c *gin.Context)
}

// CatalogRoute binds one entity to get-<Plural> and update-<Singular>.
// Public lists are readable without a section.
type CatalogRoute struct {
	Section  access.Section
	Plural   string
	Singular string
	Public   bool
	Handlers CatalogHandlers
}

func catalog[T any, P services.Record[T]](db *gorm.DB, deps services.CatalogDeps, section access.Section, plural, singular string, public bool) CatalogRoute {
	svc := services.NewCatalogService[T, P](db, plural, deps)
	return CatalogRoute{
		Section:  section,
		Plural:   plural,
		Singular: singular,
		Public:   public,
		Handlers: controllers.NewCatalogController(svc),
	}
}

// NewCatalogRoutes builds the services and controllers for every catalog entity.
func NewCatalogRoutes(db *gorm.DB, deps services.CatalogDeps) []CatalogRoute {
	return []CatalogRoute{
		catalog[models.Airline](db, deps, access.SectionAirlines, "airlines", "airline", true),
		catalog[models.Car](db, deps, access.SectionCars, "cars", "car", true),
		catalog[models.Hotel](db, deps, access.SectionHotels, "hotels", "hotel", true),
		catalog[models.Tour](db, deps, access.SectionTours, "tours", "tour", true),
		catalog[models.Blog](db, deps, access.SectionBlogs, "blogs", "blog", true),
		catalog[models.Deal](db, deps, access.SectionDeals, "deals", "deal", true),
		catalog[models.FlightOffer](db, deps, access.SectionFlightOffers, "flight-offers", "flight-offer", true),
		catalog[models.HotelOffer](db, deps, access.SectionHotelOffers, "hotel-offers", "hotel-offer", true),
		catalog[models.CarOffer](db, deps, access.SectionCarOffers, "car-offers", "car-offer", true),
		catalog[models.User](db, deps, access.SectionUsers, "users", "user", false),
	}
}
