package email

import (
	"ambrotos/internal/core/domain/reset"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/golang-module/carbon/v2"
)

const resetSubject = "Reset your password"

const resetBodyTemplate = `Hi,

A password reset was requested for your account. Open the link below to choose a new password:

%s

The link expires %s.

Regards,
%s`

// ResetLinkSender delivers reset links through Amazon SES.
// The sender address must be verified with SES.
type ResetLinkSender struct {
	ses          *ses.Client
	sender       string
	senderName   string
	resetBaseURL url.URL
	tokenTTL     time.Duration
	sendTimeout  time.Duration
}

func NewResetLinkSender(
	awsConfig aws.Config,
	sender string,
	senderName string,
	resetBaseURL url.URL,
	tokenTTL time.Duration,
	sendTimeout time.Duration,
) *ResetLinkSender {
	return &ResetLinkSender{
		ses:          ses.NewFromConfig(awsConfig),
		sender:       sender,
		senderName:   senderName,
		resetBaseURL: resetBaseURL,
		tokenTTL:     tokenTTL,
		sendTimeout:  sendTimeout,
	}
}

func (s *ResetLinkSender) SendResetLink(ctx context.Context, request reset.PasswordResetRequest) error {
	// One attempt, bounded in time. The request handler blocks on this
	// call and must not block past the timeout.
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	body := fmt.Sprintf(
		resetBodyTemplate,
		s.ResetURL(request.Token),
		carbon.Now().AddSeconds(int(s.tokenTTL.Seconds())).DiffForHumans(),
		s.senderName,
	)
	subject := resetSubject
	source := fmt.Sprintf("%s <%s>", s.senderName, s.sender)

	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: &source,
			Destination: &types.Destination{
				ToAddresses: []string{string(request.Email)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &body},
				},
			},
		},
	)
	return err
}

// ResetURL embeds the raw token as a query parameter of the configured
// HTTPS base URL.
func (s *ResetLinkSender) ResetURL(token reset.Token) string {
	resetURL := s.resetBaseURL
	query := resetURL.Query()
	query.Set("token", string(token))
	resetURL.RawQuery = query.Encode()
	return resetURL.String()
}
