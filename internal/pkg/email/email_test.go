package email

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig) (*emailServiceImpl, *[]string) {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	var sent []string
	impl.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, string(msg))
		return nil
	}
	return impl, &sent
}

func TestSendMissingAttendance_SkipsWhenDisabled(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Enabled: false})

	err := svc.SendMissingAttendanceEmployee("budi@example.com", "Budi", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, *sent)
}

func TestSendMissingAttendance_RendersTemplates(t *testing.T) {
	svc, sent := newTestService(t, config.SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromEmail: "hr@example.com",
		FromName:  "HR",
		Enabled:   true,
	})
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SendMissingAttendanceEmployee("budi@example.com", "Budi", date))
	require.NoError(t, svc.SendMissingAttendanceManager("sari@example.com", "Sari", "Budi", date))

	require.Len(t, *sent, 2)
	assert.Contains(t, (*sent)[0], "To: budi@example.com")
	assert.Contains(t, (*sent)[0], "Hello Budi")
	assert.Contains(t, (*sent)[0], "Monday, 04 March 2024")
	assert.Contains(t, (*sent)[1], "Subject: Budi has no attendance on 2024-03-04")
	assert.True(t, strings.Contains((*sent)[1], "Hello Sari"))
}

func TestSendHTML_ReturnsLastErrorAfterRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("retries sleep between attempts")
	}
	svc, _ := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Enabled: true})
	attempts := 0
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		return errors.New("connection refused")
	}

	err := svc.sendHTML("budi@example.com", "subject", "<p>body</p>")
	require.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
	assert.Contains(t, err.Error(), "connection refused")
}
