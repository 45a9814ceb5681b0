package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-drop-service/http/controller"
)

type Middlewares struct {
	CORSMiddleware  gin.HandlerFunc
	AdminMiddleware gin.HandlerFunc
	TraceMiddleware gin.HandlerFunc
}

func NewMiddlewares(ctrl *controller.Controller) (*Middlewares, error) {
	cors := CORSMiddleware(ctrl.Config.EnvConfig)
	admin := AdminAuthMiddleware(ctrl.Config.EnvConfig)
	trace := TraceMiddleware(ctrl.Config.EnvConfig)

	return &Middlewares{
		CORSMiddleware:  cors,
		AdminMiddleware: admin,
		TraceMiddleware: trace,
	}, nil
}
