package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ddr-ops/disaster_response_system/internal/config"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioProvider отправляет сообщения через Twilio Messages API.
type TwilioProvider struct {
	accountSID   string
	authToken    string
	smsFrom      string
	whatsappFrom string
	httpClient   *http.Client
	logger       *logrus.Logger
	baseURL      string
}

func NewTwilioProvider(cfg *config.Config, logger *logrus.Logger) *TwilioProvider {
	return &TwilioProvider{
		accountSID:   cfg.TwilioAccountSID,
		authToken:    cfg.TwilioAuthToken,
		smsFrom:      cfg.TwilioSMSFrom,
		whatsappFrom: cfg.TwilioWhatsAppFrom,
		httpClient: &http.Client{
			Timeout: cfg.NotifyTimeout,
		},
		logger:  logger,
		baseURL: twilioAPIBase,
	}
}

func (p *TwilioProvider) Enabled() bool {
	return p.accountSID != "" && p.authToken != ""
}

// Send отправляет одно сообщение на один номер. Для WhatsApp номер получателя
// и отправителя несут префикс "whatsapp:", как того требует API.
func (p *TwilioProvider) Send(ctx context.Context, to, body string, whatsapp bool) (string, error) {
	from := p.smsFrom
	if whatsapp {
		from = p.whatsappFrom
		if !strings.HasPrefix(to, "whatsapp:") {
			to = "whatsapp:" + to
		}
	}
	if from == "" {
		return "", fmt.Errorf("no sender number configured")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", p.baseURL, p.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create twilio request: %w", err)
	}
	req.SetBasicAuth(p.accountSID, p.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		SID     string `json:"sid"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode twilio response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("twilio returned status %d: %s (code %d)", resp.StatusCode, result.Message, result.Code)
	}

	p.logger.WithFields(logrus.Fields{
		"sid":      result.SID,
		"whatsapp": whatsapp,
		"sent_at":  time.Now().UTC(),
	}).Debug("Message delivered to provider")
	return result.SID, nil
}
