package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/lock"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
)

// MailPublisher 用于把邮件投递到消息队列，*amqp.Channel 实现了这个接口
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel MailPublisher
	redisClient *redis.Client
	termLocker  *lock.TermLocker
	metrics     *metrics.Recorder

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh MailPublisher, rdb *redis.Client, recorder *metrics.Recorder) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		termLocker:  lock.NewTermLocker(rdb, time.Duration(cfg.Redis.LockExpiration)*time.Second),
		metrics:     recorder,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", h.metrics.Handler())

	h.Mux.Route("/terms/{id}", func(r chi.Router) {
		r.Use(h.term)
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetScheduleStatus)
			r.Post("/generate", h.GenerateSchedule)
			r.Post("/reset", h.ResetSchedule)
			r.Get("/last-run", h.GetLastScheduleRun)
		})
	})
}
