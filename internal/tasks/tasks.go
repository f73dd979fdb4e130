package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/apperrors"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/email"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/models"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// TaskType defines the type of a background task.
const (
	TypeInquiryNotify = "inquiry:notify"
)

// --- Task Client (Enqueuing tasks) ---

// IAsynqClient is the part of *asynq.Client used to enqueue work.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOpt builds the asynq connection options from config.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// InquiryNotifyPayload carries everything needed to mail the agent except
// their address, which the worker looks up.
type InquiryNotifyPayload struct {
	MessageID     string `json:"message_id"`
	AgentID       string `json:"agent_id"`
	PropertyTitle string `json:"property_title"`
	SenderName    string `json:"sender_name"`
	SenderEmail   string `json:"sender_email"`
	SenderPhone   string `json:"sender_phone"`
	Message       string `json:"message"`
}

// InquiryNotifier enqueues an agent notification for each stored inquiry.
type InquiryNotifier struct {
	client IAsynqClient
}

func NewInquiryNotifier(client IAsynqClient) *InquiryNotifier {
	return &InquiryNotifier{client: client}
}

var _ services.InquiryNotifier = (*InquiryNotifier)(nil)

// NewInquiryNotifyTask builds the task for msg. It is not retried.
func NewInquiryNotifyTask(msg *models.Message) (*asynq.Task, error) {
	payload, err := json.Marshal(InquiryNotifyPayload{
		MessageID:     msg.ID.Hex(),
		AgentID:       msg.AgentID.Hex(),
		PropertyTitle: msg.PropertyTitle,
		SenderName:    msg.SenderName,
		SenderEmail:   msg.SenderEmail,
		SenderPhone:   msg.SenderPhone,
		Message:       msg.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inquiry payload: %w", err)
	}
	return asynq.NewTask(TypeInquiryNotify, payload, asynq.MaxRetry(0), asynq.Queue("default")), nil
}

func (n *InquiryNotifier) NotifyNewInquiry(ctx context.Context, msg *models.Message) error {
	task, err := NewInquiryNotifyTask(msg)
	if err != nil {
		return err
	}
	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TypeInquiryNotify, err)
	}
	zap.L().Debug("inquiry notification enqueued", zap.String("task_id", info.ID), zap.String("message_id", msg.ID.Hex()))
	return nil
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
// It holds dependencies needed by task handlers.
type TaskProcessor struct {
	cfg         *config.Config
	emailSender email.Sender
	userService services.IUserService
}

func NewTaskProcessor(cfg *config.Config, emailSender email.Sender, userService services.IUserService) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		emailSender: emailSender,
		userService: userService,
	}
}

// SetupServer configures an Asynq server and its handler mux. The caller
// starts and stops the server.
func SetupServer(cfg *config.Config, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				zap.L().Error("task failed", zap.String("type", task.Type()), zap.ByteString("payload", task.Payload()), zap.Error(err))
			}),
			Logger: zap.S(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInquiryNotify, processor.HandleInquiryNotifyTask)
	zap.L().Info("registered background task handlers", zap.Strings("types", []string{TypeInquiryNotify}))

	return srv, mux
}

// --- Task Handlers ---

// HandleInquiryNotifyTask mails the owning agent about a new inquiry.
func (p *TaskProcessor) HandleInquiryNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload InquiryNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inquiry payload: %v: %w", err, asynq.SkipRetry)
	}

	agentID, err := primitive.ObjectIDFromHex(payload.AgentID)
	if err != nil {
		return fmt.Errorf("invalid agent id %q: %w", payload.AgentID, asynq.SkipRetry)
	}

	agent, err := p.userService.FindByID(ctx, agentID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("agent %s no longer exists: %w", payload.AgentID, asynq.SkipRetry)
		}
		return err
	}

	msg := email.InquiryMessage(email.FromHeader(p.cfg.AppName, p.cfg.SmtpFromAddress), agent.Email, agent.Name, payload.PropertyTitle,
		payload.SenderName, payload.SenderEmail, payload.SenderPhone, payload.Message)
	if err := p.emailSender.Send(ctx, msg.To, msg.Subject, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send inquiry notification for message %s: %w", payload.MessageID, err)
	}

	zap.L().Info("inquiry notification sent", zap.String("message_id", payload.MessageID), zap.String("agent_id", payload.AgentID))
	return nil
}
