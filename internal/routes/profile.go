package routes

import (
	"github.com/labstack/echo/v4"

	"user-service/internal/controllers"
	"user-service/pkg/middleware"
)

func runProfileRouter(api *echo.Group, profileCtrl *controllers.ProfileController, identityMW *middleware.IdentityMiddleware, baseRole string) {
	profiles := api.Group("/profiles", identityMW.RequireUserID, identityMW.VerifyUserExists)

	profiles.POST("/me", profileCtrl.GetProfile, identityMW.HasRole(baseRole))
	profiles.POST("/me/update", profileCtrl.UpdateProfile, identityMW.HasRole(baseRole))
	profiles.POST("/me/preferences", profileCtrl.GetPreferences, identityMW.HasRole(baseRole))
	profiles.POST("/me/preferences/update", profileCtrl.UpdatePreferences, identityMW.HasRole(baseRole))

	profiles.GET("/admin/:userId", profileCtrl.GetProfile, identityMW.IsAdmin())
	profiles.PUT("/admin/:userId", profileCtrl.UpdateProfile, identityMW.IsAdmin())
}
