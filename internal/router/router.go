package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/dhammaseva/center-console/internal/handler"    // import the handlers that implement business logic
	"github.com/dhammaseva/center-console/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	g := e.Group("/v1/auth")
	// Register a POST endpoint to handle operator registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle operator login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to log out using a refresh token.  The handler
	// accepts a JSON body containing a `refresh_token` and will invalidate
	// that token.  If the token is valid, a 204 response is returned;
	// otherwise 400/401/500 are possible depending on the error.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Both operator roles may reach authenticated endpoints; per-route
	// restrictions (e.g. course deletion) are applied in RegisterAPI.
	auth.Use(middleware.RequireRole("MANAGER", "REGISTRAR"))
	// Register a GET endpoint at /v1/me that returns the authenticated operator's information.
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the course, roster, seating and purchase endpoints.
// Every route here requires a valid access token; destructive course
// operations are additionally restricted to managers.
func RegisterAPI(e *echo.Echo, jwtSecret string, ch *handler.CourseHandler, ph *handler.ParticipantHandler, sh *handler.SeatingHandler, pu *handler.PurchaseHandler) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole("MANAGER", "REGISTRAR"))

	// Courses. Creating, editing or deleting a course is reserved for
	// managers; registrars read.
	v1.GET("/courses", ch.ListCourses)
	v1.GET("/courses/:id", ch.GetCourse)
	v1.POST("/courses", ch.CreateCourse, middleware.RequireRole("MANAGER"))
	v1.PATCH("/courses/:id", ch.UpdateCourse, middleware.RequireRole("MANAGER"))
	v1.DELETE("/courses/:id", ch.DeleteCourse, middleware.RequireRole("MANAGER"))

	// Roster. Registrars do the day-zero data entry, so both roles may write.
	v1.POST("/courses/:id/participants", ph.RegisterParticipant)
	v1.GET("/courses/:id/participants", ph.ListRoster)
	v1.GET("/participants/:id", ph.GetParticipant)
	v1.PATCH("/participants/:id", ph.UpdateParticipant)
	v1.DELETE("/participants/:id", ph.DeleteParticipant)
	v1.POST("/participants/:id/arrive", ph.Arrive)
	v1.PATCH("/participants/:id/seat-lock", ph.SetSeatLock)

	// Hall geometry and the seating engine.
	v1.GET("/courses/:id/geometry/:gender", sh.GetGeometry)
	v1.PUT("/courses/:id/geometry/:gender", sh.PutGeometry)
	v1.GET("/courses/:id/seating/auto-scale", sh.AutoScale)
	v1.POST("/courses/:id/seating/assign", sh.RunAssignment)
	v1.POST("/courses/:id/seating/swap", sh.SwapSeats)

	// Canteen / store purchases recorded against a participant.
	v1.POST("/participants/:id/purchases", pu.AddPurchase)
	v1.GET("/participants/:id/purchases", pu.ListPurchases)
}
