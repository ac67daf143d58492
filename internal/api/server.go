package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/questevent/questevent-api/docs"
	v1 "github.com/questevent/questevent-api/internal/api/handler/v1"
	"github.com/questevent/questevent-api/internal/api/middleware"
	"github.com/questevent/questevent-api/internal/config"
	"github.com/questevent/questevent-api/internal/repository"
	"github.com/questevent/questevent-api/internal/repository/dao"
	"github.com/questevent/questevent-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	// Settlement is shared with the scheduler so both triggers go through the same service.
	Settlement *service.SettlementService
}

type repositories struct {
	tx          *dao.Transactor
	users       *repository.UserRepository
	wallets     *repository.WalletRepository
	programs    *repository.ProgramRepository
	activities  *repository.ActivityRepository
	submissions *repository.SubmissionRepository
}

func NewServer(conf *config.AppConfig, db *gorm.DB, clock clockwork.Clock) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	repos := newRepositories(db)
	ledger := service.NewLedgerService(repos.tx, repos.wallets, repos.users, repos.programs)
	userSvc := service.NewUserService(repos.tx, repos.users, ledger, clock)
	s.Settlement = service.NewSettlementService(repos.tx, repos.programs, repos.wallets, clock, conf.Settlement.ProgramTimeout)

	authHandler := v1.NewAuthHandler(conf.API, service.NewAuthService(repos.users))
	userHandler := v1.NewUserHandler(userSvc)
	walletHandler := v1.NewWalletHandler(service.NewWalletService(repos.wallets, repos.programs), userSvc)
	programHandler := v1.NewProgramHandler(
		service.NewProgramService(repos.tx, repos.programs, repos.activities, repos.users),
		service.NewRegistrationService(repos.tx, repos.programs, ledger),
		userSvc,
	)
	submissionHandler := v1.NewSubmissionHandler(
		service.NewSubmissionService(repos.tx, repos.submissions, repos.activities, repos.programs, ledger, clock, conf.Review.CreditUserWallet),
		userSvc,
	)
	settlementHandler := v1.NewSettlementHandler(s.Settlement, userSvc)

	s.MountHandlers(authHandler, userHandler, walletHandler, programHandler, submissionHandler, settlementHandler)

	return s
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		tx:          dao.NewTransactor(db),
		users:       repository.NewUserRepository(dao.NewUserDAO(db)),
		wallets:     repository.NewWalletRepository(dao.NewWalletDAO(db)),
		programs:    repository.NewProgramRepository(dao.NewProgramDAO(db)),
		activities:  repository.NewActivityRepository(dao.NewActivityDAO(db)),
		submissions: repository.NewSubmissionRepository(dao.NewSubmissionDAO(db)),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	walletHandler *v1.WalletHandler,
	programHandler *v1.ProgramHandler,
	submissionHandler *v1.SubmissionHandler,
	settlementHandler *v1.SettlementHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)
		authenticated.POST("/users/me/profile", userHandler.HandleCompleteProfile)

		authenticated.GET("/wallets/me", walletHandler.HandleGetMyWallet)

		authenticated.POST("/programs", programHandler.HandleCreateProgram)
		authenticated.GET("/programs/:programID", programHandler.HandleGetProgram)
		authenticated.POST("/programs/:programID/activate", programHandler.HandleActivateProgram)
		authenticated.PUT("/programs/:programID/judge", programHandler.HandleAssignJudge)
		authenticated.GET("/programs/:programID/activities", programHandler.HandleListActivities)
		authenticated.POST("/programs/:programID/activities", programHandler.HandleCreateActivity)
		authenticated.POST("/programs/:programID/registrations", programHandler.HandleRegister)
		authenticated.GET("/programs/:programID/wallets", walletHandler.HandleListProgramWallets)
		authenticated.GET("/programs/:programID/wallets/me", walletHandler.HandleGetMyProgramWallet)
		authenticated.POST("/programs/:programID/settle", settlementHandler.HandleSettleProgram)

		authenticated.POST("/activities/:activityID/submissions", submissionHandler.HandleSubmit)
		authenticated.GET("/submissions/pending", submissionHandler.HandleListPending)
		authenticated.POST("/submissions/:submissionID/approve", submissionHandler.HandleApprove)
		authenticated.POST("/submissions/:submissionID/reject", submissionHandler.HandleReject)

		authenticated.POST("/admin/settlements/run", settlementHandler.HandleRunSettlements)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "QuestEvent API"
	docs.SwaggerInfo.Description = "Programs, activities, reviews and the gem ledger."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
