// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESService is the slice of the SES API the mailer needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// RecordMailer e-mails a finished diagnostic record to the respondent.
type RecordMailer struct {
	client    SESService
	fromEmail string
}

func NewRecordMailer(ctx context.Context, region, fromEmail string) (*RecordMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewRecordMailerWithClient(ses.NewFromConfig(cfg), fromEmail), nil
}

func NewRecordMailerWithClient(client SESService, fromEmail string) *RecordMailer {
	return &RecordMailer{client: client, fromEmail: fromEmail}
}

// SendRecord sends one message with both an HTML and a plain-text part and
// returns the SES message id.
func (m *RecordMailer) SendRecord(ctx context.Context, to, subject, html, text string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("recipient address is empty")
	}

	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(text), Charset: awssdk.String("UTF-8")},
				Html: &types.Content{Data: awssdk.String(html), Charset: awssdk.String("UTF-8")},
			},
		},
		Source: awssdk.String(m.fromEmail),
	})
	if err != nil {
		return "", fmt.Errorf("ses send to %s: %w", to, err)
	}
	return awssdk.ToString(out.MessageId), nil
}
