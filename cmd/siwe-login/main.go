// Command siwe-login runs the full wallet sign-in flow against an identity
// service and prints the resulting session. It demonstrates the production
// wiring: Redis-backed session store, Redis Streams login events and the
// HTTP identity provider.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MeiJie12/siwesession"
	"github.com/MeiJie12/siwesession/adapters/events"
	"github.com/MeiJie12/siwesession/adapters/identity"
	"github.com/MeiJie12/siwesession/adapters/signer"
	"github.com/MeiJie12/siwesession/adapters/store"
	"github.com/MeiJie12/siwesession/core"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	redisURL := envOr("REDIS_URL", "redis://localhost:6379/0")
	identityURL := envOr("IDENTITY_URL", "http://localhost:9100")
	domain := envOr("SIWE_DOMAIN", "localhost")
	environment := core.Environment(envOr("SIWE_ENV", string(core.EnvironmentDevelopment)))

	chainID, err := strconv.ParseInt(envOr("CHAIN_ID", "1"), 10, 64)
	if err != nil {
		logger.Fatal("invalid CHAIN_ID", zap.Error(err))
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal("failed to parse Redis URL", zap.Error(err))
	}

	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal("failed to create Redis publisher", zap.Error(err))
	}

	walletSigner, err := loadSigner(chainID, domain)
	if err != nil {
		logger.Fatal("failed to load signer", zap.Error(err))
	}

	client := siwesession.NewClient(
		siwesession.Config{Environment: environment},
		store.NewRedisStore(redisClient),
		identity.NewHTTPProvider(map[core.Environment]string{environment: identityURL}, nil),
		events.NewWatermillPublisher(publisher),
		logger,
	)
	client.AttachSigner(walletSigner)

	logger.Info("signing in",
		zap.String("address", walletSigner.Address()),
		zap.String("environment", string(environment)),
	)

	token, err := client.AccessToken(ctx)
	if err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}

	// Served from the cached session written by the login above
	profile, err := client.UserProfile(ctx)
	if err != nil {
		logger.Fatal("failed to read profile", zap.Error(err))
	}

	logger.Info("signed in",
		zap.String("profile_id", profile.ID),
		zap.String("username", profile.Username),
		zap.String("access_token", token),
	)
}

// loadSigner builds the wallet signer from SIGNER_KEY, generating a
// throwaway key when none is configured
func loadSigner(chainID int64, domain string) (*signer.LocalSigner, error) {
	if hexKey := os.Getenv("SIGNER_KEY"); hexKey != "" {
		return signer.NewLocalSignerFromHex(hexKey, chainID, domain)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return signer.NewLocalSigner(key, chainID, domain), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
