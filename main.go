package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/techemperorhousings/emp-housing-backend-sub000/models"
	"github.com/techemperorhousings/emp-housing-backend-sub000/routes"
	"github.com/techemperorhousings/emp-housing-backend-sub000/services"
	"github.com/techemperorhousings/emp-housing-backend-sub000/storage"
	"github.com/techemperorhousings/emp-housing-backend-sub000/utils"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	// JWT Verifiers
	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("EMAIL_TOKEN_SECRET")))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Permission guards, checked against the seeded catalogue on
	// every request so role edits apply without re-login.
	canListProperty := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermListProperty,
		Access: []string{models.AccessSeller, models.AccessUser, models.AccessAdmin},
	})
	canBookProperty := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermBookProperty,
		Access: []string{models.AccessBuyer, models.AccessUser, models.AccessAdmin},
	})
	canMakeOffer := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermMakeOffer,
		Access: []string{models.AccessBuyer, models.AccessUser, models.AccessAdmin},
	})
	canDecideBooking := utils.RequirePermissions(utils.AnyAccess(storage.PermDecideBooking))
	canManageRentals := utils.RequirePermissions(utils.AnyAccess(storage.PermManageRentals))
	canManagePurchases := utils.RequirePermissions(utils.AnyAccess(storage.PermManagePurchases))
	canModerateListings := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermModerateListing,
		Access: []string{models.AccessAdmin},
	})
	canReviewKYC := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermReviewKYC,
		Access: []string{models.AccessAdmin, models.AccessSupportStaff},
	})
	canManageTickets := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermManageTickets,
		Access: []string{models.AccessAdmin, models.AccessSupportStaff},
	})
	canManageUsers := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermManageUsers,
		Access: []string{models.AccessAdmin},
	})
	canManageRoles := utils.RequirePermissions(services.RequiredPermission{
		Name:   storage.PermManageRoles,
		Access: []string{models.AccessAdmin},
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/facebook", routes.FacebookLoginOrSignUp)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/apple", routes.AppleLoginOrSignUp)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/changepassword", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ChangePassword)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
		user.Patch("/{id}/profile", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.UpdateUserProfile)
		user.Post("/verification", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SubmitVerification)
		user.Get("/verification/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyVerification)
	}

	property := app.Party("/api/property")
	{
		property.Post("/", accessTokenVerifierMiddleware, canListProperty, routes.CreateProperty)
		property.Get("/search", routes.SearchProperties)
		property.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyProperties)
		property.Get("/{id}", routes.GetProperty)
		property.Patch("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateProperty)
		property.Delete("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteProperty)
		property.Get("/{id}/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetPropertyBookings)
		property.Get("/{id}/tours", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetPropertyTourBookings)
		property.Get("/{id}/offers", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListPropertyOffers)
	}

	booking := app.Party("/api/booking")
	{
		booking.Post("/property/{id}", accessTokenVerifierMiddleware, canBookProperty, routes.CreateBooking)
		booking.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserBookings)
		booking.Post("/{id}/cancel", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CancelBooking)
		booking.Patch("/{id}/decision", accessTokenVerifierMiddleware, canDecideBooking, routes.DecideBooking)
	}

	tour := app.Party("/api/tour")
	{
		tour.Post("/property/{id}", accessTokenVerifierMiddleware, canBookProperty, routes.BookPropertyTour)
		tour.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserTourBookings)
		tour.Patch("/{id}/reschedule", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.RescheduleTour)
		tour.Patch("/{id}/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateTourStatus)
	}

	rental := app.Party("/api/rental")
	{
		rental.Post("/", accessTokenVerifierMiddleware, canBookProperty, routes.CreateRentalAgreement)
		rental.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserRentalAgreements)
		rental.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetRentalAgreement)
		rental.Post("/{id}/accept-terms", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AcceptRentalTerms)
		rental.Patch("/{id}/status", accessTokenVerifierMiddleware, canManageRentals, routes.UpdateRentalStatus)
		rental.Patch("/{id}/terms", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateRentalTerms)
	}

	purchase := app.Party("/api/purchase")
	{
		purchase.Post("/", accessTokenVerifierMiddleware, canMakeOffer, routes.CreatePurchase)
		purchase.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserPurchases)
		purchase.Patch("/{id}/status", accessTokenVerifierMiddleware, canManagePurchases, routes.UpdatePurchaseStatus)
	}

	offer := app.Party("/api/offer")
	{
		offer.Post("/property/{id}", accessTokenVerifierMiddleware, canMakeOffer, routes.CreateOffer)
		offer.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUserOffers)
		offer.Post("/{id}/withdraw", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.WithdrawOffer)
		offer.Patch("/{id}/decision", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DecideOffer)
	}

	conversation := app.Party("/api/conversation")
	{
		conversation.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.OpenConversation)
		conversation.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListConversations)
		conversation.Get("/{id}/messages", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListMessages)
		conversation.Post("/{id}/messages", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SendMessage)
	}

	support := app.Party("/api/support")
	{
		support.Post("/tickets", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateTicket)
		support.Get("/tickets/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMyTickets)
		support.Get("/tickets", accessTokenVerifierMiddleware, canManageTickets, routes.ListTickets)
		support.Get("/tickets/{id}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetTicket)
		support.Post("/tickets/{id}/replies", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ReplyTicket)
		support.Patch("/tickets/{id}/status", accessTokenVerifierMiddleware, canManageTickets, routes.UpdateTicketStatus)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListNotifications)
		notifications.Patch("/{id}/read", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationRead)
		notifications.Post("/read-all", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkAllNotificationsRead)
	}

	upload := app.Party("/api/upload")
	{
		upload.Post("/image", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UploadImage)
		upload.Delete("/image", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteUploadedImage)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware)
	{
		admin.Get("/users", canManageUsers, routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/active", canManageUsers, routes.AdminSetUserActive)
		admin.Patch("/users/{id:uint}/role", canManageRoles, routes.AdminAssignRole)
		admin.Get("/roles", canManageRoles, routes.AdminListRoles)
		admin.Post("/roles", canManageRoles, routes.AdminCreateRole)
		admin.Post("/roles/{id:uint}/permissions", canManageRoles, routes.AdminGrantPermission)
		admin.Patch("/properties/{id:uint}/moderate", canModerateListings, routes.AdminModerateProperty)
		admin.Get("/verifications", canReviewKYC, routes.ListPendingVerifications)
		admin.Patch("/verifications/{id:uint}", canReviewKYC, routes.ReviewVerification)
		admin.Get("/stats", canManageUsers, routes.AdminStats)
	}

	app.Get("/ws/events", routes.EventsStream)
	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
