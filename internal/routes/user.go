package routes

import (
	"github.com/labstack/echo/v4"

	"user-service/internal/controllers"
	"user-service/pkg/middleware"
)

func runUserRouter(api *echo.Group, userCtrl *controllers.UserController, identityMW *middleware.IdentityMiddleware, baseRole string) {
	users := api.Group("/users")

	users.GET("/search", userCtrl.SearchUsers)
	users.GET("/:userId", userCtrl.GetUserByID)

	users.POST("/me/data", userCtrl.GetCompleteUserData,
		identityMW.RequireUserID, identityMW.VerifyUserExists, identityMW.HasRole(baseRole))

	users.GET("/admin/all", userCtrl.GetAllUsers,
		identityMW.RequireUserID, identityMW.VerifyUserExists, identityMW.IsAdmin())
	users.GET("/admin/analytics", userCtrl.GetUserAnalytics,
		identityMW.RequireUserID, identityMW.VerifyUserExists, identityMW.IsAdmin())
}
