// The lead-lambda binary serves the submission endpoint behind API Gateway
// v2. Origin and method policy run here, before any handler logic; the
// submission pipeline itself is shared with cmd/api.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/evrodrive/leadgate/cmd/mainconfig"
	"github.com/evrodrive/leadgate/internal/app/bootstrap"
	appconfig "github.com/evrodrive/leadgate/internal/config"
	"github.com/evrodrive/leadgate/internal/leads"
	"github.com/evrodrive/leadgate/internal/notify"
	"github.com/evrodrive/leadgate/internal/recaptcha"
	"github.com/evrodrive/leadgate/pkg/logging"
)

type app struct {
	service  *leads.Service
	allowed  map[string]struct{}
	allowAny bool
	logger   *logging.Logger
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			panic(err)
		}
		awsCfg = &loaded
	}

	repo, _, err := bootstrap.Repository(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to initialize lead storage", "error", err)
		panic(err)
	}

	verifier := recaptcha.New(recaptcha.Config{
		Enabled:   cfg.RecaptchaEnabled,
		Secret:    cfg.RecaptchaSecret,
		Threshold: cfg.RecaptchaThreshold,
	}, recaptcha.WithLogger(logger))

	alerter := notify.NewLeadAlerter(bootstrap.EmailSender(cfg, awsCfg, logger), cfg.NotifyTo, logger)

	a := &app{
		service: leads.NewService(leads.ServiceConfig{
			Repository:     repo,
			Verifier:       verifier,
			RequireCaptcha: cfg.RecaptchaEnabled,
			Notifier:       alerter,
			Logger:         logger,
		}),
		allowed: make(map[string]struct{}),
		logger:  logger,
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			a.allowAny = true
			continue
		}
		a.allowed[origin] = struct{}{}
	}

	lambda.Start(a.handle)
}

func (a *app) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	origin := strings.TrimSpace(headerValue(evt.Headers, "origin"))

	// Reject disallowed origins before any handler logic runs.
	if origin != "" && !a.originAllowed(origin) {
		a.logger.Warn("submission rejected by CORS policy", "origin", origin)
		return textResponse(http.StatusForbidden, "Not allowed by CORS", nil), nil
	}
	cors := corsHeaders(origin)

	if method == http.MethodOptions {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNoContent, Headers: cors}, nil
	}
	if method != http.MethodPost {
		return textResponse(http.StatusMethodNotAllowed, "Method Not Allowed", cors), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body", cors), nil
	}

	var req leads.SubmitLeadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body", cors), nil
	}

	lead, err := a.service.Submit(ctx, &req)
	if err != nil {
		return errorResponse(http.StatusBadRequest, err.Error(), cors), nil
	}

	return jsonResponse(http.StatusOK, leads.SubmitResponse{OK: true, ID: lead.ID}, cors), nil
}

func (a *app) originAllowed(origin string) bool {
	if a.allowAny {
		return true
	}
	_, ok := a.allowed[origin]
	return ok
}

func corsHeaders(origin string) map[string]string {
	if origin == "" {
		return map[string]string{}
	}
	return map[string]string{
		"Access-Control-Allow-Origin":      origin,
		"Access-Control-Allow-Credentials": "true",
		"Access-Control-Allow-Headers":     "Authorization, Content-Type",
		"Access-Control-Allow-Methods":     "POST, OPTIONS",
		"Vary":                             "Origin",
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

func textResponse(status int, body string, headers map[string]string) events.APIGatewayV2HTTPResponse {
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "text/plain; charset=utf-8"
	return events.APIGatewayV2HTTPResponse{StatusCode: status, Body: body, Headers: headers}
}

func errorResponse(status int, message string, headers map[string]string) events.APIGatewayV2HTTPResponse {
	return jsonResponse(status, leads.ErrorResponse{Error: message}, headers)
}

func jsonResponse(status int, body any, headers map[string]string) events.APIGatewayV2HTTPResponse {
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"
	raw, _ := json.Marshal(body)
	return events.APIGatewayV2HTTPResponse{StatusCode: status, Body: string(raw), Headers: headers}
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
