package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/smithy-go"
	"github.com/pulse-app/pulse-push/internal/config"
	"github.com/pulse-app/pulse-push/internal/domain"
)

// EndpointClient manages SNS platform endpoints and publishes push
// notifications to them.
type EndpointClient interface {
	// CreateEndpoint creates a platform endpoint for the token. Returns
	// domain.ErrPlatformNotConfigured when no platform application ARN is
	// configured; provider errors pass through unchanged.
	CreateEndpoint(ctx context.Context, deviceToken, customUserData string) (string, error)
	// Publish sends an APNS-structured notification to the endpoint and
	// returns the provider message id.
	Publish(ctx context.Context, endpointARN string, push domain.Push) (string, error)
	// DeleteEndpoint removes a platform endpoint. Best-effort callers may
	// ignore the returned error.
	DeleteEndpoint(ctx context.Context, endpointARN string) error
}

type client struct {
	sns            *sns.Client
	platformAppARN string
}

// NewClient builds the SNS endpoint client from environment configuration.
func NewClient(cfg *config.Config) (EndpointClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &client{
		sns:            sns.NewFromConfig(awsCfg, clientOpts...),
		platformAppARN: cfg.PlatformApplicationARN,
	}, nil
}

func (c *client) CreateEndpoint(ctx context.Context, deviceToken, customUserData string) (string, error) {
	if c.platformAppARN == "" {
		return "", domain.ErrPlatformNotConfigured
	}
	out, err := c.sns.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(c.platformAppARN),
		Token:                  aws.String(deviceToken),
		CustomUserData:         aws.String(customUserData),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.EndpointArn), nil
}

// apsAlert and apsPayload follow the APNS message schema SNS forwards to
// Apple when MessageStructure is "json".
type apsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type apsPayload struct {
	APS struct {
		Alert apsAlert `json:"alert"`
		Sound string   `json:"sound"`
		Badge int      `json:"badge"`
	} `json:"aps"`
	CustomData struct {
		Timestamp string `json:"timestamp"`
	} `json:"custom_data"`
}

// envelope keys the APNS payload by target platform; SNS picks the right
// format per endpoint when MessageStructure is "json".
func envelope(push domain.Push) (string, error) {
	var p apsPayload
	p.APS.Alert = apsAlert{Title: push.Title, Body: push.Body}
	p.APS.Sound = "default"
	p.APS.Badge = 1
	p.CustomData.Timestamp = time.Now().UTC().Format(time.RFC3339)

	apns, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal APNS payload: %w", err)
	}
	msg, err := json.Marshal(map[string]string{"APNS": string(apns)})
	if err != nil {
		return "", fmt.Errorf("marshal message envelope: %w", err)
	}
	return string(msg), nil
}

func (c *client) Publish(ctx context.Context, endpointARN string, push domain.Push) (string, error) {
	msg, err := envelope(push)
	if err != nil {
		return "", err
	}

	out, err := c.sns.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(endpointARN),
		Message:          aws.String(msg),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (c *client) DeleteEndpoint(ctx context.Context, endpointARN string) error {
	_, err := c.sns.DeleteEndpoint(ctx, &sns.DeleteEndpointInput{
		EndpointArn: aws.String(endpointARN),
	})
	return err
}

// IsTokenConflict reports whether err is the InvalidParameter response SNS
// returns when the token is already bound to another endpoint.
func IsTokenConflict(err error) bool {
	var ipe *types.InvalidParameterException
	return errors.As(err, &ipe)
}

// ErrorCode extracts the provider error code, or empty for non-API errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// FormatError renders a provider error as "Code: Message" when it is an
// API error, matching the per-target result contract.
func FormatError(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return err.Error()
}
