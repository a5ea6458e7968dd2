package infrastructure

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tahien663-cpu/chat-api/internal/application/audit"
	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/auth"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/crontab"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/repository"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/database/transaction"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/gotrue"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/inference"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/logger"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients"
	"github.com/tahien663-cpu/chat-api/internal/utils/httpclients/chat"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideGoTrueClient provides the identity provider client
func ProvideGoTrueClient(cfg *config.Config, log zerolog.Logger) *gotrue.Client {
	return gotrue.NewClient(
		cfg.AuthBaseURL,
		cfg.AuthServiceKey,
		&http.Client{Timeout: cfg.HTTPTimeout},
		log,
	)
}

// ProvideTokenValidator provides a JWT validator backed by the identity
// provider's JWKS endpoint.
func ProvideTokenValidator(cfg *config.Config, log zerolog.Logger) (*auth.TokenValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewTokenValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL, cfg.DatabaseReplicaURL)
	if err != nil {
		return nil, err
	}

	// Run migrations if AUTO_MIGRATE is enabled
	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideTransactionDatabase provides a transaction database wrapper
func ProvideTransactionDatabase(db *gorm.DB) *transaction.Database {
	return transaction.NewDatabase(db)
}

// ProvideChatCompletionClient provides the shared HTTP client for the
// completion provider. Chat turns and the prompt enhancer reuse it with
// their own call deadlines.
func ProvideChatCompletionClient(cfg *config.Config) *chat.ChatCompletionClient {
	client := httpclients.NewClient("CompletionProviderClient")
	client.SetTimeout(cfg.CompletionTimeout)
	return chat.NewChatCompletionClient(client, cfg.CompletionProviderName, cfg.CompletionBaseURL)
}

// ProvideCompletionService provides the chat completion service
func ProvideCompletionService(cfg *config.Config, client *chat.ChatCompletionClient) *inference.CompletionService {
	return inference.NewCompletionService(client, cfg.CompletionAPIKey, cfg.CompletionDefaultModel, cfg.CompletionTimeout)
}

// ProvidePromptEnhancer provides the best-effort prompt enhancer
func ProvidePromptEnhancer(cfg *config.Config, client *chat.ChatCompletionClient) *inference.PromptEnhancer {
	model := strings.TrimSpace(cfg.EnhancerModel)
	if model == "" {
		model = cfg.CompletionDefaultModel
	}
	return inference.NewPromptEnhancer(client, cfg.CompletionAPIKey, model, cfg.EnhancerTimeout)
}

// ProvideImageRenderer provides the image URL builder and liveness probe
func ProvideImageRenderer(cfg *config.Config, log zerolog.Logger) *inference.ImageRenderer {
	return inference.NewImageRenderer(cfg, log)
}

// ProvideAuthAuditLogger provides the best-effort audit trail writer
func ProvideAuthAuditLogger(db *gorm.DB, log zerolog.Logger) *audit.AuthAuditLogger {
	return audit.NewAuthAuditLogger(db, log)
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB             *gorm.DB
	TokenValidator *auth.TokenValidator
	Logger         zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	tokenValidator *auth.TokenValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:             db,
		TokenValidator: tokenValidator,
		Logger:         logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Database
	ProvideDatabase,
	ProvideTransactionDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Outbound model services
	ProvideChatCompletionClient,
	ProvideCompletionService,
	ProvidePromptEnhancer,
	ProvideImageRenderer,

	// Logger
	logger.GetLogger,

	// Identity provider
	ProvideGoTrueClient,
	ProvideTokenValidator,

	// Audit trail
	ProvideAuthAuditLogger,

	// Crontab for maintenance jobs
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
