package report

import (
	"testing"
	"time"

	"minimarket/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAlerts_DerivedThenPersisted(t *testing.T) {
	persisted := []model.Alert{{ID: "a1", Type: model.AlertOverStock, Severity: model.SeverityLow, Message: "manual"}}
	alerts := ComputeAlerts(catalogFixture(), persisted, now, DefaultExpiryWindow)

	require.Len(t, alerts, 3)
	assert.Equal(t, "lowstock-milk", alerts[0].ID)
	assert.Equal(t, model.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "Stock bajo (3 unidades)", alerts[0].Message)

	assert.Equal(t, "expire-milk", alerts[1].ID)
	assert.Equal(t, model.SeverityMedium, alerts[1].Severity)
	assert.Equal(t, "Por vencer el 01/07/2025", alerts[1].Message)

	assert.Equal(t, "a1", alerts[2].ID)
}

func TestComputeAlerts_DoesNotModifyPersisted(t *testing.T) {
	persisted := make([]model.Alert, 1, 8)
	persisted[0] = model.Alert{ID: "a1"}
	_ = ComputeAlerts(catalogFixture(), persisted, now, DefaultExpiryWindow)
	assert.Equal(t, "a1", persisted[0].ID)
	assert.Len(t, persisted, 1)
}

func TestExpiringSoon_Window(t *testing.T) {
	p := model.Product{ExpirationDate: strPtr("2025-07-18")}
	assert.True(t, ExpiringSoon(p, now, DefaultExpiryWindow))
	assert.False(t, ExpiringSoon(p, now, 10*24*time.Hour))

	expired := model.Product{ExpirationDate: strPtr("2025-01-01")}
	assert.True(t, ExpiringSoon(expired, now, DefaultExpiryWindow))

	assert.False(t, ExpiringSoon(model.Product{}, now, DefaultExpiryWindow))
	assert.False(t, ExpiringSoon(model.Product{ExpirationDate: strPtr("garbage")}, now, DefaultExpiryWindow))
}

func TestUnread(t *testing.T) {
	assert.Equal(t, 1, Unread([]model.Alert{{IsRead: true}, {IsRead: false}}))
}
