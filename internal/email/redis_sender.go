package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/config"
)

// MockEmailTTL is how long a captured email stays readable in Redis.
const MockEmailTTL = 5 * time.Minute

// MockEmailKey is the Redis key a captured email is stored under.
func MockEmailKey(to string, kind Kind) string {
	return fmt.Sprintf("mockemail:%s:%s", strings.ToLower(to), kind)
}

// RedisSender implements the Sender interface by storing emails in Redis, so
// integration tests can read them back through the service API.
type RedisSender struct {
	client redis.Cmdable
	cfg    *config.Config
}

func NewRedisSender(client redis.Cmdable, cfg *config.Config) Sender {
	return &RedisSender{client: client, cfg: cfg}
}

func (s *RedisSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	kind := KindFromSubject(subject)

	primaryTo := ""
	if len(to) > 0 {
		primaryTo = to[0]
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"to":      strings.Join(to, ", "),
		"from":    s.cfg.SmtpFromAddress,
		"subject": subject,
		"body":    string(rawMessage),
		"sent_at": time.Now().UTC().Format(time.RFC3339Nano),
		"kind":    kind,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email data: %w", err)
	}

	key := MockEmailKey(primaryTo, kind)
	if err := s.client.Set(ctx, key, jsonData, MockEmailTTL).Err(); err != nil {
		return fmt.Errorf("failed to store email in Redis key '%s': %w", key, err)
	}

	zap.L().Info("mock email stored in Redis", zap.String("key", key), zap.String("subject", subject))
	return nil
}
