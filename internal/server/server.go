package server

import (
	"log"
	"strings"
	"time"

	"github.com/sociable-dev/sociable/internal/config"
	"github.com/sociable-dev/sociable/internal/middleware"
	"github.com/sociable-dev/sociable/internal/realtime"
	"github.com/sociable-dev/sociable/pkg/ratelimiter"
	"github.com/sociable-dev/sociable/pkg/storage"

	bookmarkHttp "github.com/sociable-dev/sociable/internal/modules/bookmark/delivery/http"
	bookmarkRepo "github.com/sociable-dev/sociable/internal/modules/bookmark/repository"
	bookmarkService "github.com/sociable-dev/sociable/internal/modules/bookmark/service"

	commentHttp "github.com/sociable-dev/sociable/internal/modules/comment/delivery/http"
	commentRepo "github.com/sociable-dev/sociable/internal/modules/comment/repository"
	commentService "github.com/sociable-dev/sociable/internal/modules/comment/service"

	feedHttp "github.com/sociable-dev/sociable/internal/modules/feed/delivery/http"
	feedRepo "github.com/sociable-dev/sociable/internal/modules/feed/repository"
	feedService "github.com/sociable-dev/sociable/internal/modules/feed/service"

	followHttp "github.com/sociable-dev/sociable/internal/modules/follow/delivery/http"
	followRepo "github.com/sociable-dev/sociable/internal/modules/follow/repository"
	followService "github.com/sociable-dev/sociable/internal/modules/follow/service"

	notiHttp "github.com/sociable-dev/sociable/internal/modules/notification/delivery/http"
	notifRepo "github.com/sociable-dev/sociable/internal/modules/notification/repository"
	notifService "github.com/sociable-dev/sociable/internal/modules/notification/service"

	postHttp "github.com/sociable-dev/sociable/internal/modules/post/delivery/http"
	postRepo "github.com/sociable-dev/sociable/internal/modules/post/repository"
	postService "github.com/sociable-dev/sociable/internal/modules/post/service"

	searchHttp "github.com/sociable-dev/sociable/internal/modules/search/delivery/http"
	searchService "github.com/sociable-dev/sociable/internal/modules/search/service"

	userHttp "github.com/sociable-dev/sociable/internal/modules/user/delivery/http"
	userRepo "github.com/sociable-dev/sociable/internal/modules/user/repository"
	userService "github.com/sociable-dev/sociable/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	hub         *realtime.Hub
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := searchService.NewSearchService(meiliClient)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	// The hub is the single realtime dispatcher; every service that pushes
	// events gets it injected
	hub := realtime.NewHub()
	wsHandler := realtime.NewHandler(hub)

	userRepository := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, hub)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc)

	followRepository := followRepo.NewFollowRepository(db)
	followSvc := followService.NewFollowService(followRepository, userRepository, notificationSvc)
	followHandler := followHttp.NewFollowHandler(followSvc)

	postRepository := postRepo.NewPostRepository(db)
	feedRepository := feedRepo.NewFeedRepository(db)
	commentRepository := commentRepo.NewCommentRepository(db)
	bookmarkRepository := bookmarkRepo.NewBookmarkRepository(db)

	publishLimiter := ratelimiter.NewCooldownLimiter(redisClient, cfg.RateLimitPost)

	postSvc := postService.NewPostService(
		postRepository,
		userRepository,
		followRepository,
		feedRepository,
		commentRepository,
		bookmarkRepository,
		imageStorage,
		redisClient,
		publishLimiter,
		notificationSvc,
		searchSvc,
		hub,
	)
	postHandler := postHttp.NewPostHandler(postSvc)
	uploadHandler := postHttp.NewUploadHandler(imageStorage, cfg.CloudinaryUploadFolder)

	feedSvc := feedService.NewFeedService(feedRepository, postSvc)
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	commentSvc := commentService.NewCommentService(commentRepository, postRepository, notificationSvc, redisClient)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	bookmarkSvc := bookmarkService.NewBookmarkService(bookmarkRepository, postRepository, postSvc)
	bookmarkHandler := bookmarkHttp.NewBookmarkHandler(bookmarkSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Post routes
		protected.POST("/post", postHandler.Publish)
		protected.GET("/post/:id", postHandler.GetByID)
		protected.PATCH("/post/:id", postHandler.Edit)
		protected.DELETE("/post/:id", postHandler.Delete)
		protected.POST("/like/post/:id", postHandler.ToggleLike)
		protected.GET("/:username/posts", postHandler.AuthorPosts)

		// Feed routes
		protected.GET("/feed", feedHandler.GetNewsFeed)

		// Social graph routes
		protected.POST("/follow/:username", followHandler.Follow)
		protected.DELETE("/follow/:username", followHandler.Unfollow)
		protected.GET("/:username/followers", followHandler.Followers)
		protected.GET("/:username/following", followHandler.Following)
		protected.GET("/user/:username", authHandler.GetProfile)

		// Comment routes
		protected.POST("/comment/:post_id", commentHandler.Create)
		protected.GET("/comment/:post_id", commentHandler.List)
		protected.DELETE("/comment/:comment_id", commentHandler.Delete)

		// Bookmark routes
		protected.POST("/bookmark/post/:post_id", bookmarkHandler.Toggle)
		protected.GET("/bookmarks", bookmarkHandler.List)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Other protected routes
		protected.GET("/search", searchHandler.Search)
		protected.POST("/upload", uploadHandler.Upload)
		protected.GET("/ws", wsHandler.Serve)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		hub:         hub,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
