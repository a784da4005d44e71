package otp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"career-counselling/internal/common/config"
	"career-counselling/internal/common/logger"
	"career-counselling/internal/common/metrics"
	"career-counselling/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	emailSubject = "Your Career Counselling verification code"
	messageText  = "Your Career Counselling verification code is %s"
)

// Sender delivers a code to a user on one channel.
type Sender interface {
	Channel() string
	Send(ctx context.Context, user *models.User, code string) error
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SESSender emails the code.
type SESSender struct {
	client SESService
	from   string
}

func NewSESSender(client SESService, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

func (s *SESSender) Channel() string { return config.ChannelEmail }

func (s *SESSender) Send(ctx context.Context, user *models.User, code string) error {
	if user.Email == "" {
		return errors.New("user has no email address")
	}
	body := fmt.Sprintf(messageText, code)
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{user.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(emailSubject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.from),
	})
	return err
}

// SNSSender texts the code.
type SNSSender struct {
	client   SNSService
	senderID string
}

func NewSNSSender(client SNSService, senderID string) *SNSSender {
	return &SNSSender{client: client, senderID: senderID}
}

func (s *SNSSender) Channel() string { return config.ChannelSMS }

func (s *SNSSender) Send(ctx context.Context, user *models.User, code string) error {
	if user.Phone == "" {
		return errors.New("user has no phone number")
	}
	input := &sns.PublishInput{
		PhoneNumber: aws.String(user.Phone),
		Message:     aws.String(fmt.Sprintf(messageText, code)),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}
	_, err := s.client.Publish(ctx, input)
	return err
}

// LogSender writes the code to the log instead of delivering it. Used in
// development when no real channel is configured.
type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Channel() string { return config.ChannelLog }

func (s *LogSender) Send(_ context.Context, user *models.User, code string) error {
	s.log.Info("otp issued", map[string]interface{}{
		"userId": user.ID,
		"email":  user.Email,
		"phone":  user.Phone,
		"otp":    code,
	})
	return nil
}

// MultiSender sends on every channel and succeeds if at least one does.
type MultiSender struct {
	senders []Sender
	log     logger.Logger
}

func NewMultiSender(log logger.Logger, senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders, log: log}
}

// Channel lists the configured channels, comma separated.
func (m *MultiSender) Channel() string {
	names := make([]string, len(m.senders))
	for i, s := range m.senders {
		names[i] = s.Channel()
	}
	return strings.Join(names, ",")
}

func (m *MultiSender) Send(ctx context.Context, user *models.User, code string) error {
	if len(m.senders) == 0 {
		return errors.New("no otp channels configured")
	}

	var errs []error
	for _, s := range m.senders {
		if err := s.Send(ctx, user, code); err != nil {
			metrics.OTPSent.WithLabelValues(s.Channel(), "failed").Inc()
			m.log.Warn("otp delivery failed", map[string]interface{}{
				"channel": s.Channel(),
				"userId":  user.ID,
				"error":   err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", s.Channel(), err))
			continue
		}
		metrics.OTPSent.WithLabelValues(s.Channel(), "sent").Inc()
	}

	if len(errs) == len(m.senders) {
		return errors.Join(errs...)
	}
	return nil
}
