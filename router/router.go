package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinebook/reservation-app/controllers"
	"github.com/dinebook/reservation-app/middlewares"
	"github.com/dinebook/reservation-app/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	restaurantCtrl := controllers.NewRestaurantController(db)
	tableCtrl := controllers.NewTableController(db)
	menuCtrl := controllers.NewMenuController(db)
	bookingCtrl := controllers.NewBookingController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	auth.Use(middlewares.NewStrictRateLimiter())
	{
		auth.POST("/signup", userCtrl.Register)
		auth.POST("/login", userCtrl.Login)
	}

	r.GET("/restaurants", restaurantCtrl.GetAllRestaurants)
	r.GET("/restaurants/:restaurant_id", restaurantCtrl.GetRestaurant)
	r.GET("/restaurants/:restaurant_id/menu", menuCtrl.GetRestaurantMenu)
	r.GET("/restaurants/:restaurant_id/tables", tableCtrl.GetRestaurantTables)
	r.GET("/restaurants/:restaurant_id/available-tables", bookingCtrl.GetAvailableTables)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		authed.POST("/logout", userCtrl.Logout)
		authed.GET("/profile", userCtrl.GetProfile)
		authed.PUT("/profile", userCtrl.UpdateProfile)

		authed.GET("/notifications", notificationCtrl.GetMyNotifications)
		authed.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
		authed.PATCH("/notifications/:notification_id/read", notificationCtrl.MarkRead)

		// Customer or owning seller; the engine checks the right party.
		authed.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)

		customer := authed.Group("/")
		customer.Use(middlewares.RequireRoles(models.RoleCustomer))
		{
			customer.POST("/bookings", bookingCtrl.CreateBooking)
			customer.GET("/customers/bookings", bookingCtrl.GetCustomerBookings)
		}

		seller := authed.Group("/")
		seller.Use(middlewares.RequireRoles(models.RoleSeller))
		{
			seller.POST("/sellers/restaurants", restaurantCtrl.CreateRestaurant)
			seller.PUT("/sellers/restaurants/:restaurant_id", restaurantCtrl.UpdateRestaurant)

			seller.POST("/sellers/restaurants/:restaurant_id/tables", tableCtrl.CreateTable)
			seller.PUT("/sellers/restaurants/:restaurant_id/tables/:table_id", tableCtrl.UpdateTable)
			seller.DELETE("/sellers/restaurants/:restaurant_id/tables/:table_id", tableCtrl.DeleteTable)

			seller.POST("/sellers/restaurants/:restaurant_id/menu", menuCtrl.CreateMenuItem)
			seller.PUT("/sellers/restaurants/:restaurant_id/menu/:item_id", menuCtrl.UpdateMenuItem)
			seller.DELETE("/sellers/restaurants/:restaurant_id/menu/:item_id", menuCtrl.DeleteMenuItem)

			seller.GET("/seller/bookings", bookingCtrl.GetSellerBookings)
			seller.PUT("/bookings/:booking_id/status", bookingCtrl.UpdateBookingStatus)

			seller.GET("/dashboard/ws", controllers.DashboardHandler)
		}
	}

	return r
}
