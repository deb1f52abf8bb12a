package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"esom-requisition-server/internal/api/handlers"
	"esom-requisition-server/internal/api/middleware"
	"esom-requisition-server/internal/mailer"
)

// SetupRouter wires middleware and handlers into the gin engine.
func SetupRouter(dispatcher mailer.Dispatcher, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	// The form is served from arbitrary origins (intranet hosts, file://
	// previews), so CORS stays permissive. Preflights answer 200.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"X-CSRF-Token", "X-Requested-With", "Accept", "Accept-Version",
			"Content-Length", "Content-MD5", "Content-Type", "Date", "X-Api-Version",
		},
		OptionsResponseStatusCode: http.StatusOK,
	}))

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method Not Allowed"})
	})

	submitHandler := &handlers.SubmitHandler{
		Dispatcher: dispatcher,
		Validate:   validator.New(),
		Log:        log,
	}
	catalogHandler := &handlers.CatalogHandler{}

	api := router.Group("/api")
	{
		api.POST("/submit", submitHandler.Submit)
		api.GET("/catalog", catalogHandler.GetCatalog)
	}

	return router
}
