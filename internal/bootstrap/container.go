package bootstrap

import (
	"context"
	"time"

	"notefiber-todo/internal/config"
	"notefiber-todo/internal/controller"
	"notefiber-todo/internal/handler"
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/pkg/mailer"
	"notefiber-todo/internal/pkg/serverutils"
	"notefiber-todo/internal/repository/memory"
	"notefiber-todo/internal/repository/unitofwork"
	"notefiber-todo/internal/service"
	"notefiber-todo/internal/websocket"
	"notefiber-todo/pkg/events"
	pktNats "notefiber-todo/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const accountCacheTTL = 10 * time.Minute

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	AccountController  controller.IAccountController
	NotebookController controller.INotebookController
	TaskController     controller.ITaskController
	ActivityController controller.IActivityController

	JwtMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ChangeConsumer  service.IChangeConsumer
	ActivityService service.IActivityService
	NatsSubscriber  *pktNats.Subscriber
	WebSocketHub    *websocket.Hub

	LiveHandler *handler.LiveHandler
	Logger      logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	tokens := serverutils.NewTokenIssuer(cfg.Auth.JwtSecret, cfg.Auth.AccessTokenTTL)
	accountCache := memory.NewAccountCache(accountCacheTTL)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. In-process change bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	c := &Container{Logger: sysLogger}

	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("Container", "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		sysLogger.Warn("Container", "NATS subscriber unavailable, activity worker disabled", map[string]interface{}{"error": err.Error()})
	} else {
		c.NatsSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Services
	changes := service.NewChangePublisher(pubSub, cfg.App.ChangeTopic, sysLogger)
	feedService := service.NewFeedService(uowFactory)

	liveLogger := logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)
	wsHub := websocket.NewHub(rdb, feedService, service.Matches, liveLogger)

	authService := service.NewAuthService(uowFactory, tokens, accountCache, changes, eventPublisher, sysLogger)
	accountService := service.NewAccountService(uowFactory, accountCache, emailService, sysLogger)
	notebookService := service.NewNotebookService(uowFactory, changes, eventPublisher, sysLogger)
	taskService := service.NewTaskService(uowFactory, changes, eventPublisher, sysLogger)
	activityService := service.NewActivityService(uowFactory, sysLogger)

	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 5. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.AccountController = controller.NewAccountController(accountService)
	c.NotebookController = controller.NewNotebookController(notebookService)
	c.TaskController = controller.NewTaskController(taskService)
	c.ActivityController = controller.NewActivityController(activityService)
	c.JwtMiddleware = serverutils.JwtMiddleware(tokens)

	c.ChangeConsumer = service.NewChangeConsumer(pubSub, cfg.App.ChangeTopic, wsHub, sysLogger)
	c.ActivityService = activityService
	c.WebSocketHub = wsHub
	c.LiveHandler = handler.NewLiveHandler(wsHub, tokens, liveLogger)
	return c
}

// Start launches the hub and background consumers; they stop with ctx.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ChangeConsumer.Consume(ctx); err != nil {
		return err
	}

	if c.NatsSubscriber != nil {
		if err := c.ActivityService.Consume(ctx, c.NatsSubscriber); err != nil {
			c.Logger.Warn("Container", "Activity worker not started", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("Container", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		// Single-instance mode: changes stay local.
		log.Warn("Container", "Redis unavailable, changes stay on this instance", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
