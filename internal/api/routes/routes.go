package routes

import (
	"time"

	"poll-service/internal/admin"
	"poll-service/internal/api/middleware"
	"poll-service/internal/catalog"
	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/importer"
	"poll-service/internal/soundtrack"
	"poll-service/internal/user"
	"poll-service/internal/vote"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Router struct {
	engine            *gin.Engine
	catalogHandler    *catalog.Handler
	voteHandler       *vote.Handler
	userHandler       *user.Handler
	soundtrackHandler *soundtrack.Handler
	adminHandler      *admin.Handler
	rateLimitMW       *middleware.RateLimitMiddleware
	authMW            *middleware.AuthMiddleware
}

func NewRouter(
	db *gorm.DB,
	redisClient *database.RedisClient,
	publisher vote.EventPublisher,
	media soundtrack.MediaStore,
	cfg *config.Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	// Initialize repositories
	catalogRepo := catalog.NewRepository(db)
	voteRepo := vote.NewRepository(db)
	userRepo := user.NewRepository(db)
	soundtrackRepo := soundtrack.NewRepository(db)

	// Initialize services
	var tallyCache *vote.TallyCache
	if redisClient != nil {
		tallyCache = vote.NewTallyCache(redisClient.GetClient(), cfg.Poll.ResultsCacheTTL)
	}
	catalogService := catalog.NewService(catalogRepo)
	voteService := vote.NewService(voteRepo, tallyCache, publisher)
	userService := user.NewService(userRepo, cfg.Poll.YearOfBirthMin, cfg.Poll.YearOfBirthMax)
	soundtrackService := soundtrack.NewService(soundtrackRepo, media)
	adminService := admin.NewService(&cfg.Admin)
	catalogImport := importer.New(db, cfg.Poll.DataDir)

	return &Router{
		engine:            engine,
		catalogHandler:    catalog.NewHandler(catalogService),
		voteHandler:       vote.NewHandler(voteService, cfg.Database.AcquireTimeout),
		userHandler:       user.NewHandler(userService),
		soundtrackHandler: soundtrack.NewHandler(soundtrackService),
		adminHandler:      admin.NewHandler(adminService, catalogImport),
		rateLimitMW:       middleware.NewRateLimitMiddleware(redisClient),
		authMW:            middleware.NewAuthMiddleware(adminService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api")

	// Catalog routes (read-only)
	{
		api.GET("/categories", r.catalogHandler.GetCategories)
		api.GET("/categories/:id/blocks", r.catalogHandler.GetBlocks)
		api.GET("/blocks/:code/questions", r.catalogHandler.GetQuestions)
		api.GET("/questions/:code/options", r.catalogHandler.GetOptions)
	}

	// User registration
	api.POST("/users", r.userHandler.Register)

	// Vote routes
	votes := api.Group("/")
	votes.Use(r.rateLimitMW.RateLimitIP(60, time.Minute))
	{
		votes.POST("/vote", r.voteHandler.Submit)
		votes.POST("/vote/single", r.voteHandler.SubmitSingle)
		votes.POST("/vote/checkbox", r.voteHandler.SubmitCheckbox)
		votes.POST("/vote/other", r.voteHandler.SubmitOther)
	}
	api.GET("/results/:question_code", r.voteHandler.GetResults)

	// Soundtrack routes
	{
		api.GET("/soundtracks", r.soundtrackHandler.GetSoundtracks)
		api.GET("/soundtracks/playlists", r.soundtrackHandler.GetPlaylists)
	}

	// Admin routes
	adminRoutes := api.Group("/admin")
	adminRoutes.POST("/login", r.adminHandler.Login)

	protected := adminRoutes.Group("/")
	protected.Use(r.authMW.RequireAdmin())
	{
		protected.POST("/import", r.adminHandler.Import)
		protected.GET("/users", r.userHandler.List)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
