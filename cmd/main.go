package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"restostock/config"
	_ "restostock/docs" // registro da documentação Swagger gerada
	"restostock/internal/notifier"
	"restostock/internal/pkg/cache"
	"restostock/internal/pkg/database"
	"restostock/internal/pkg/logger"
	"restostock/internal/pkg/middleware"
	"restostock/internal/pkg/token"

	"restostock/internal/api/inventory"
	"restostock/internal/api/product"
	"restostock/internal/api/router"
	"restostock/internal/api/transaction"
	"restostock/internal/api/user"
	"restostock/internal/repository/inventoryrepo"
	"restostock/internal/repository/productrepo"
	"restostock/internal/repository/transactionrepo"
	"restostock/internal/repository/userrepo"
	"restostock/internal/service/inventoryservice"
	"restostock/internal/service/productservice"
	"restostock/internal/service/transactionservice"
	"restostock/internal/service/userservice"
)

// @title RestoStock API
// @version 1.0
// @description API de gestão de estoque para o back-office de restaurantes.
// @BasePath /
func main() {
	// 1. Configuração e inicialização
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", nil)

	// 2. Infraestrutura

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	logg.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		// O cache é opcional: os repositórios degradam para leitura direta.
		logg.Warn("Redis indisponível, operando sem cache.", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		logg.Info("Conexão Redis estabelecida.", nil)
	}

	// 3. Notificação de estoque baixo (email + WhatsApp)

	emailSender := notifier.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	whatsAppSender := notifier.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
	direct := notifier.NewDirect(emailSender, whatsAppSender)

	var lowStockNotifier notifier.Notifier = direct
	var queue *notifier.Queue
	if cfg.NotifyMode == "queue" {
		queue = notifier.NewQueue(direct, cfg.NotifyQueueSz, logg)
		lowStockNotifier = queue
		logg.Info("Notificador em modo fila.", map[string]interface{}{"size": cfg.NotifyQueueSz})
	}

	// 4. Injeção de dependências: Repository -> Service -> Handler

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	inventoryRepo := inventoryrepo.NewInventoryRepository(db, cacheClient, cfg.DBTimeout, logg)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, logg)
	transactionRepo := transactionrepo.NewTransactionRepository(db, cacheClient, cfg.DBTimeout, logg)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, logg)

	inventorySvc := inventoryservice.NewService(inventoryRepo, userRepo, lowStockNotifier, logg)
	productSvc := productservice.NewService(productRepo, inventorySvc, logg)
	transactionSvc := transactionservice.NewService(transactionRepo, productRepo, userRepo, inventorySvc, logg)
	userSvc := userservice.NewService(userRepo, tokenSvc, logg)

	productHandler := product.NewHandler(productSvc, logg)
	inventoryHandler := inventory.NewHandler(inventorySvc, productSvc, logg)
	transactionHandler := transaction.NewHandler(transactionSvc, logg)
	userHandler := user.NewHandler(userSvc, logg)

	// 5. Roteador, middlewares globais e servidor

	auth := middleware.NewAuthMiddleware(tokenSvc)
	mux := router.NewRouter(productHandler, inventoryHandler, transactionHandler, userHandler, auth)

	handler := middleware.RateLimiter(cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("Servidor RestoStock ouvindo.", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}
	if queue != nil {
		// Drena os alertas pendentes antes de sair.
		queue.Close()
	}

	logg.Info("Servidor encerrado com sucesso.", nil)
}
