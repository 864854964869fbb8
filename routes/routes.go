package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdur28/boarding-sky-sub000/access"
	"github.com/abdur28/boarding-sky-sub000/controllers"
	"github.com/abdur28/boarding-sky-sub000/middleware"
	"github.com/abdur28/boarding-sky-sub000/models"
)

type Router struct {
	Resolver    middleware.ActorResolver
	Catalogs    []CatalogRoute
	Bookings    *controllers.BookingController
	Settings    *controllers.SettingsController
	Media       *controllers.MediaController
	Roles       *controllers.RoleController
	UploadsDir  string
	CORSOrigins []string
}

// imageSections may upload or delete images.
var imageSections = []access.Section{
	access.SectionFlightOffers, access.SectionHotelOffers, access.SectionCarOffers,
	access.SectionDeals, access.SectionAirlines, access.SectionCars, access.SectionHotels,
	access.SectionTours, access.SectionBlogs, access.SectionUsers,
}

func SetupRouter(rt Router) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if rt.UploadsDir != "" {
		r.Static("/uploads", rt.UploadsDir)
	}

	origins := rt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.IdentityHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Identify(rt.Resolver))

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/sections", controllers.Sections)
		dashboard.GET("/roles", middleware.RequireSection(access.SectionUsers), controllers.RoleMatrix)
	}

	actions := api.Group("/actions")
	read := func(path string, handlers ...gin.HandlerFunc) {
		actions.GET(path, handlers...)
		actions.POST(path, handlers...)
	}

	for _, cr := range rt.Catalogs {
		if cr.Public {
			read("/get-"+cr.Plural, cr.Handlers.List)
		} else {
			read("/get-"+cr.Plural, middleware.RequireSection(cr.Section), cr.Handlers.List)
		}
		actions.POST("/update-"+cr.Singular, middleware.RequireSection(cr.Section), cr.Handlers.Update)
	}

	if rt.Roles != nil {
		actions.POST("/update-user-role", middleware.RequireSection(access.SectionUsers), rt.Roles.UpdateUserRole)
	}

	if rt.Bookings != nil {
		read("/get-booking", middleware.RequireSection(access.SectionBookings), rt.Bookings.GetBookings)
		actions.POST("/update-booking", middleware.RequireSection(access.SectionBookings), rt.Bookings.UpdateBooking)
	}

	if rt.Settings != nil {
		read("/get-config", middleware.RequireSection(access.SectionSettings), rt.Settings.GetConfig)
		actions.POST("/update-config", middleware.RequireSection(access.SectionSettings), rt.Settings.UpdateConfig)

		read("/get-privacy-policy", rt.Settings.GetPage(models.PagePrivacyPolicy))
		actions.POST("/update-privacy-policy", middleware.RequireSection(access.SectionPrivacyPolicy), rt.Settings.UpdatePage(models.PagePrivacyPolicy))
		read("/get-terms-and-conditions", rt.Settings.GetPage(models.PageTermsAndConditions))
		actions.POST("/update-terms-and-conditions", middleware.RequireSection(access.SectionTerms), rt.Settings.UpdatePage(models.PageTermsAndConditions))
	}

	if rt.Media != nil {
		actions.POST("/delete-image", middleware.RequireSection(imageSections...), rt.Media.DeleteImage)
		actions.POST("/upload-image", middleware.RequireSection(imageSections...), rt.Media.UploadImage)
	}

	return r
}
