package alert

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddr-ops/disaster_response_system/internal/config"
)

func newTestTwilioProvider(t *testing.T, baseURL string) *TwilioProvider {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		TwilioAccountSID:   "ACtest",
		TwilioAuthToken:    "secret",
		TwilioSMSFrom:      "+15550001111",
		TwilioWhatsAppFrom: "+15550002222",
		NotifyTimeout:      5 * time.Second,
	}

	provider := NewTwilioProvider(cfg, logger)
	provider.baseURL = baseURL
	return provider
}

func TestTwilioSend_SMS_Success(t *testing.T) {
	// Подготовка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Accounts/ACtest/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "ACtest", user)
		require.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+919999999999", r.PostForm.Get("To"))
		assert.Equal(t, "+15550001111", r.PostForm.Get("From"))
		assert.Equal(t, "Road closed", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM123"}`))
	}))
	defer server.Close()

	provider := newTestTwilioProvider(t, server.URL)

	// Действие
	sid, err := provider.Send(context.Background(), "+919999999999", "Road closed", false)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
}

func TestTwilioSend_WhatsApp_PrefixesNumbers(t *testing.T) {
	// Подготовка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		// Получатель и отправитель WhatsApp несут префикс "whatsapp:"
		assert.Equal(t, "whatsapp:+919999999999", r.PostForm.Get("To"))
		assert.Equal(t, "+15550002222", r.PostForm.Get("From"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM456"}`))
	}))
	defer server.Close()

	provider := newTestTwilioProvider(t, server.URL)

	// Действие
	sid, err := provider.Send(context.Background(), "+919999999999", "Check in", true)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "SM456", sid)
}

func TestTwilioSend_APIError(t *testing.T) {
	// Подготовка
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "The 'To' number is not a valid phone number.", "code": 21211}`))
	}))
	defer server.Close()

	provider := newTestTwilioProvider(t, server.URL)

	// Действие
	sid, err := provider.Send(context.Background(), "bogus", "hi", false)

	// Проверки
	require.Error(t, err)
	assert.Empty(t, sid)
	assert.ErrorContains(t, err, "code 21211")
}

func TestTwilioEnabled(t *testing.T) {
	provider := newTestTwilioProvider(t, "http://unused")
	assert.True(t, provider.Enabled())

	provider.authToken = ""
	assert.False(t, provider.Enabled())
}
