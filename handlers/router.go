package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tea-techniques-api/config"
	"tea-techniques-api/docs"
	"tea-techniques-api/helper"
	"tea-techniques-api/middleware"
	"tea-techniques-api/models"
	"tea-techniques-api/repositories"
	"tea-techniques-api/services"
)

// NewRouter wires middleware, handlers and the schema docs into a
// ready-to-serve engine.
func NewRouter(cfg *config.Config, store *repositories.Store) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	h := helper.NewHTTPHelper()

	authService := services.NewAuthService(store, cfg.SessionTTL)
	techniqueService := services.NewTechniqueService(store)
	taxonomyService := services.NewTaxonomyService(store)

	authHandler := NewAuthHandler(authService, cfg.SecretKey, !cfg.Debug, h)
	techniqueHandler := NewTechniqueHandler(techniqueService, h)
	taxonomyHandler := NewTaxonomyHandler(taxonomyService, h)

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.AllowedHosts(cfg.AllowedHosts, h),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
		middleware.Timeout(cfg.RequestTimeout),
		middleware.SessionMiddleware(authService),
	)

	router.NoRoute(func(c *gin.Context) {
		h.SendError(c, models.NewNotFound("Not found."))
	})
	router.NoMethod(func(c *gin.Context) {
		h.SendError(c, models.NewMethodNotAllowed("Method not allowed."))
	})
	router.HandleMethodNotAllowed = true

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if sqlDB, err := store.DB.DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, status)
	})

	docs.Register(router)

	api := router.Group("/api")
	api.Use(middleware.CSRFMiddleware(cfg.SecretKey, h))

	requireAuth := middleware.RequireAuth(h)

	auth := api.Group("/auth")
	{
		auth.GET("/csrf", authHandler.CSRF)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/user", authHandler.CurrentUser)
		auth.GET("/status", authHandler.Status)
	}

	techniques := api.Group("/techniques")
	{
		techniques.GET("", techniqueHandler.List)
		techniques.GET("/:id", techniqueHandler.Get)
		techniques.POST("", requireAuth, techniqueHandler.Create)
		techniques.PUT("/:id", requireAuth, techniqueHandler.Update)
		techniques.PATCH("/:id", requireAuth, techniqueHandler.PartialUpdate)
		techniques.DELETE("/:id", requireAuth, techniqueHandler.Delete)
	}

	registerTaxonomy(api, "/assurance-goals", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListAssuranceGoals,
		get:    taxonomyHandler.GetAssuranceGoal,
		create: taxonomyHandler.CreateAssuranceGoal,
		update: taxonomyHandler.UpdateAssuranceGoal,
		delete: taxonomyHandler.DeleteAssuranceGoal,
	})
	registerTaxonomy(api, "/categories", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListCategories,
		get:    taxonomyHandler.GetCategory,
		create: taxonomyHandler.CreateCategory,
		update: taxonomyHandler.UpdateCategory,
		delete: taxonomyHandler.DeleteCategory,
	})
	registerTaxonomy(api, "/subcategories", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListSubCategories,
		get:    taxonomyHandler.GetSubCategory,
		create: taxonomyHandler.CreateSubCategory,
		update: taxonomyHandler.UpdateSubCategory,
		delete: taxonomyHandler.DeleteSubCategory,
	})
	registerTaxonomy(api, "/tags", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListTags,
		get:    taxonomyHandler.GetTag,
		create: taxonomyHandler.CreateTag,
		update: taxonomyHandler.UpdateTag,
		delete: taxonomyHandler.DeleteTag,
	})
	registerTaxonomy(api, "/attribute-types", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListAttributeTypes,
		get:    taxonomyHandler.GetAttributeType,
		create: taxonomyHandler.CreateAttributeType,
		update: taxonomyHandler.UpdateAttributeType,
		delete: taxonomyHandler.DeleteAttributeType,
	})
	registerTaxonomy(api, "/resource-types", requireAuth, taxonomyEndpoints{
		list:   taxonomyHandler.ListResourceTypes,
		get:    taxonomyHandler.GetResourceType,
		create: taxonomyHandler.CreateResourceType,
		update: taxonomyHandler.UpdateResourceType,
		delete: taxonomyHandler.DeleteResourceType,
	})

	return router
}

type taxonomyEndpoints struct {
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	create gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

func registerTaxonomy(api *gin.RouterGroup, path string, requireAuth gin.HandlerFunc, eps taxonomyEndpoints) {
	group := api.Group(path)
	group.GET("", eps.list)
	group.GET("/:id", eps.get)
	group.POST("", requireAuth, eps.create)
	group.PUT("/:id", requireAuth, eps.update)
	group.DELETE("/:id", requireAuth, eps.delete)
}
