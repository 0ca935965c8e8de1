package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// publishMail 将邮件发送到消息队列
// 排课结果在这之前已经写入数据库，所以投递失败只记录日志，不影响接口的响应
func (h *Handler) publishMail(mailMessage *domain.MailMessage) {
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		slog.Error("无法序列化邮件", "type", mailMessage.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		slog.Error("无法将邮件发送到消息队列", "type", mailMessage.Type, "error", err)
	}
}

func (h *Handler) publishScheduleGeneratedMail(term *domain.Term, result *domain.SchedulingResult) {
	h.publishMail(&domain.MailMessage{
		Type: domain.MailTypeScheduleGenerated,
		To:   h.config.Email.NotifyTo,
		Data: domain.ScheduleGeneratedMailData{
			TermName:       term.Name,
			RunID:          result.RunID,
			Scheduled:      len(result.Assignments),
			Unresolvable:   len(result.UnresolvableCourseIDs),
			FitnessScore:   result.FitnessScore,
			GenerationsRun: result.GenerationsRun,
			Applied:        result.Applied,
		},
	})
}

func (h *Handler) publishScheduleFailedMail(term *domain.Term, runID string, reason string) {
	h.publishMail(&domain.MailMessage{
		Type: domain.MailTypeScheduleFailed,
		To:   h.config.Email.NotifyTo,
		Data: domain.ScheduleFailedMailData{
			TermName: term.Name,
			RunID:    runID,
			Reason:   reason,
		},
	})
}
