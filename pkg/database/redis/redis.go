package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/kinkando/score-admin/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPort                = 6379
	defaultMaxRetries          = 3
	defaultMaxIdleConnLifetime = 30 * time.Minute
	defaultPingTimeout         = 10 * time.Second
)

type Option interface {
	apply(*redis)
}

type optionFunc func(*redis)

func (o optionFunc) apply(r *redis) {
	o(r)
}

func WithHost(host string) Option {
	return optionFunc(func(r *redis) {
		r.host = host
	})
}

func WithPort(port int) Option {
	return optionFunc(func(r *redis) {
		if port > 0 {
			r.port = port
		}
	})
}

func WithUsername(username string) Option {
	return optionFunc(func(r *redis) {
		r.username = username
	})
}

func WithPassword(password string) Option {
	return optionFunc(func(r *redis) {
		r.password = password
	})
}

func WithDB(db int) Option {
	return optionFunc(func(r *redis) {
		r.db = db
	})
}

func WithMaxRetries(n int) Option {
	return optionFunc(func(r *redis) {
		r.maxRetries = n
	})
}

func WithMaxIdleConnLifetime(d time.Duration) Option {
	return optionFunc(func(r *redis) {
		r.maxIdleConnLifetime = d
	})
}

type redis struct {
	host                string
	port                int
	username            string
	password            string
	db                  int
	maxRetries          int
	maxIdleConnLifetime time.Duration
}

func (r *redis) addr() string {
	return r.host + ":" + strconv.Itoa(r.port)
}

// NewClient connects to redis and pings it once. The console cannot keep a
// session without its token store, so a failed ping is fatal.
func NewClient(options ...Option) *goredis.Client {
	r := &redis{
		port:                defaultPort,
		maxRetries:          defaultMaxRetries,
		maxIdleConnLifetime: defaultMaxIdleConnLifetime,
	}
	for _, o := range options {
		o.apply(r)
	}

	logger.Infof("redis: connecting to %s", r.addr())

	client := goredis.NewClient(&goredis.Options{
		Addr:            r.addr(),
		Username:        r.username,
		Password:        r.password,
		DB:              r.db,
		MaxRetries:      r.maxRetries,
		ConnMaxIdleTime: r.maxIdleConnLifetime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatalf("redis: ping: %s", err.Error())
	}

	logger.Infof("redis: connected to %s", r.addr())
	return client
}

func Shutdown(r *goredis.Client) {
	if r == nil {
		return
	}
	logger.Info("redis: shutting down")
	if err := r.Close(); err != nil {
		logger.Errorf("redis: close: %s", err.Error())
		return
	}
	logger.Info("redis: shutdown")
}
