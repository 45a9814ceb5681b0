package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drop-service/http/controller"
	middlewares "github.com/tnqbao/gau-drop-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.Use(middles.TraceMiddleware)

	apiRoutes := r.Group("/api/v1")
	{
		dropRoutes := apiRoutes.Group("/drops")
		{
			dropRoutes.POST("/", ctrl.CreateDrop)
			dropRoutes.GET("/", ctrl.ListDrops)
			dropRoutes.GET("/:id", ctrl.GetDrop)
			dropRoutes.PUT("/:id", ctrl.UpdateDrop)
			dropRoutes.PATCH("/:id/toggle-delete", ctrl.ToggleDeleteDrop)
			dropRoutes.DELETE("/:id/:password", ctrl.DeleteDrop)
			dropRoutes.GET("/:id/download", ctrl.DownloadDrop)
		}

		apiRoutes.POST("/login-logs", ctrl.CreateLoginLog)

		adminRoutes := apiRoutes.Group("/admin")
		{
			adminRoutes.Use(middles.AdminMiddleware)

			adminRoutes.GET("/fingerprints", ctrl.ListFingerprints)
			adminRoutes.POST("/fingerprints/:fingerprint/toggle-block", ctrl.ToggleBlockFingerprint)
			adminRoutes.GET("/login-logs", ctrl.ListLoginLogs)
		}
	}
	return r
}
