package deps

import (
	"ambrotos/internal/config"
	dl "ambrotos/internal/core/domain/logging"
	drl "ambrotos/internal/core/domain/rate_limiter"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/domain/user"
	dbreset "ambrotos/internal/db/reset"
	dbuser "ambrotos/internal/db/user"
	"ambrotos/internal/implementations/email"
	"ambrotos/internal/implementations/logging"
	passwordhasher "ambrotos/internal/implementations/password_hasher"
	ratelimiter "ambrotos/internal/implementations/rate_limiter"
	resettokengenerator "ambrotos/internal/implementations/reset_token_generator"
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	ResetRepository   reset.Repository
	AccountRepository user.AccountRepository

	RateLimiter drl.RateLimiter

	PasswordHasher      user.PasswordHasher
	ResetTokenGenerator reset.TokenGenerator
	ResetLinkSender     reset.LinkSender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }

	resetRepository := dbreset.NewPgxRepository(deps.DB)
	// The reset table is created lazily; the call is idempotent.
	if err := resetRepository.EnsureSchema(context.Background()); err != nil {
		deps.Logger.Error(context.Background(), "Could not ensure password resets schema.", dl.Entry("err", err))
		panic(err)
	}
	deps.ResetRepository = resetRepository
	deps.AccountRepository = dbuser.NewPgxRepository(deps.DB)

	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.ResetTokenGenerator = resettokengenerator.NewGenerator()
	deps.ResetLinkSender = email.NewResetLinkSender(
		deps.AwsConfig,
		deps.Config.MailSender,
		deps.Config.MailSenderName,
		deps.Config.PasswordResetBaseURL,
		deps.Config.PasswordResetTokenTTL,
		deps.Config.MailSendTimeout,
	)

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			// A single attempt per send: retrying would risk duplicate
			// reset emails.
			return retry.AddWithMaxAttempts(retry.NewStandard(), 1)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}
