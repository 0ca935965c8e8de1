package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"300"` // 排课是同步执行的，写超时需要足够长
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	Scheduler struct {
		PopulationSize  int     `env:"POPULATION_SIZE" envDefault:"100"`
		MaxGenerations  int     `env:"MAX_GENERATIONS" envDefault:"200"`
		CrossoverRate   float64 `env:"CROSSOVER_RATE" envDefault:"0.8"`
		MutationRate    float64 `env:"MUTATION_RATE" envDefault:"0.05"`
		ElitismCount    int     `env:"ELITISM_COUNT" envDefault:"10"`
		TournamentSize  int     `env:"TOURNAMENT_SIZE" envDefault:"5"`
		StagnationLimit int     `env:"STAGNATION_LIMIT" envDefault:"50"`
		Workers         int     `env:"WORKERS" envDefault:"1"`

		// 请求中可以覆盖参数，但不能超过下面的上限
		MaxPopulationSize   int `env:"MAX_POPULATION_SIZE" envDefault:"1000"`
		MaxGenerationsLimit int `env:"MAX_GENERATIONS_LIMIT" envDefault:"5000"`
	} `envPrefix:"SCHEDULER_"`
	Seed struct {
		Teachers int `env:"TEACHERS" envDefault:"20"`
		Rooms    int `env:"ROOMS" envDefault:"10"`
	} `envPrefix:"SEED_"`
	Email struct {
		NotifyTo string `env:"NOTIFY_TO,required"` // 排课结果通知的收件人
		SMTP     struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		LockExpiration      int    `env:"LOCK_EXPIRATION" envDefault:"600"`       // 10 分钟
		LastRunExpiration   int    `env:"LAST_RUN_EXPIRATION" envDefault:"86400"` // 1 天
	} `envPrefix:"REDIS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
