package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"newsfeed/api"
	"newsfeed/common"
	"newsfeed/config"
	"newsfeed/listing"
	"newsfeed/logging"
	"newsfeed/monitor"
	"newsfeed/notify"
	"newsfeed/publisher"
	"newsfeed/state"

	"github.com/gin-gonic/gin"
)

const redisPingTimeout = 3 * time.Second

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	serve := flag.Bool("serve", true, "serve feeds and the monitor API")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *once, *serve); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger, once, serve bool) error {
	for _, dir := range []string{cfg.FeedsDir, filepath.Dir(cfg.StateFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	extractor, err := listing.NewExtractor(cfg.BaseURL, listing.DefaultSelectors(), log)
	if err != nil {
		return err
	}

	var driver monitor.Driver = monitor.FixedDelay(cfg.Interval)
	if cfg.Schedule != "" {
		schedule, err := monitor.NewCronSchedule(cfg.Schedule)
		if err != nil {
			return err
		}
		driver = schedule
	}

	notifier := initializeNotifiers(ctx, cfg, log)
	if notifier != nil {
		defer notifier.Close()
	}

	runner := monitor.NewRunner(monitor.Components{
		Fetcher:   listing.NewFetcher(cfg.ListingURL, cfg.UserAgent, cfg.FetchTimeout),
		Extractor: extractor,
		Store:     state.NewStore(cfg.StateFile, log),
		Publisher: publisher.New(cfg.FeedsDir, channelFrom(cfg), initializeMirror(ctx, cfg, log), log),
		Notifier:  notifier,
		FeedName:  cfg.FeedName,
		Logger:    log,
	})

	if once {
		if res := runner.RunOnce(ctx); res.Failed() {
			return errors.New(res.Error)
		}
		return nil
	}

	if serve {
		srv := startServer(cfg, runner, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("server shutdown", "error", err)
			}
		}()
	}

	if err := runner.Run(ctx, driver); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func channelFrom(cfg *config.Config) publisher.Channel {
	ch := cfg.Channel
	return publisher.Channel{
		Title:       ch.Title,
		Description: ch.Description,
		Link:        cfg.ListingURL,
		Language:    ch.Language,
		Image:       ch.Image,
		Favicon:     ch.Favicon,
		Copyright:   ch.Copyright,
		Generator:   ch.Generator,
		Author:      ch.Author,
		AuthorEmail: ch.AuthorEmail,
		SelfURL:     cfg.FeedURL,
	}
}

// initializeMirror returns an S3 mirror if S3_BUCKET is set. A nil interface disables mirroring.
func initializeMirror(ctx context.Context, cfg *config.Config, log logging.Logger) publisher.Mirror {
	if cfg.S3.Bucket == "" {
		return nil
	}
	client, err := common.NewS3(ctx, common.S3Config{
		Bucket:       cfg.S3.Bucket,
		Prefix:       cfg.S3.Prefix,
		Region:       cfg.S3.Region,
		Profile:      cfg.S3.Profile,
		UsePathStyle: cfg.S3.UsePathStyle,
	})
	if err != nil {
		log.Warn("failed to init S3 client, mirroring disabled", "error", err)
		return nil
	}
	log.Info("mirroring feeds to S3", "location", client.Location())
	return client
}

// initializeNotifiers builds the configured announcers. nil means none are configured.
func initializeNotifiers(ctx context.Context, cfg *config.Config, log logging.Logger) notify.Notifier {
	var all notify.Multi

	if len(cfg.Kafka.Brokers) > 0 {
		k, err := notify.NewKafkaNotifier(notify.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			log.Warn("kafka announcer disabled", "error", err)
		} else {
			log.Info("announcing new articles to kafka", "topic", cfg.Kafka.Topic)
			all = append(all, k)
		}
	}

	if cfg.Redis.Addr != "" {
		r := notify.NewRedisNotifier(notify.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Stream:   cfg.Redis.Stream,
		})
		// announcements retry every cycle, so an unreachable server only warns
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		if err := r.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, announcements will retry", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
		all = append(all, r)
		log.Info("announcing new articles to redis", "stream", cfg.Redis.Stream)
	}

	if len(all) == 0 {
		return nil
	}
	return all
}

func startServer(cfg *config.Config, runner *monitor.Runner, log logging.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(cfg.FeedsDir, runner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting API server", "addr", srv.Addr, "feed", cfg.FeedURL(cfg.FeedName))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()
	return srv
}
