package amqp_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
	"github.com/AnaBeatrizVictorio/colhecash/internal/infra/amqp"
)

func TestEncodeAlertEvent_WireKeys(t *testing.T) {
	evt := domain.AlertEvent{
		Owner: "user-1",
		Alert: domain.Alert{
			Code:    domain.AlertGoalReached,
			Level:   domain.LevelSuccess,
			Title:   "Meta atingida",
			Message: "Você atingiu 100% da sua meta de vendas.",
			Period:  domain.Period{Month: 3, Year: 2024},
		},
		OccurredAt: time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC),
	}

	body, err := amqp.EncodeAlertEvent(evt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if raw["usuario"] != "user-1" {
		t.Errorf("usuario = %v", raw["usuario"])
	}
	alert, ok := raw["alerta"].(map[string]any)
	if !ok {
		t.Fatalf("alerta missing: %s", body)
	}
	if alert["codigo"] != "meta_atingida" {
		t.Errorf("codigo = %v", alert["codigo"])
	}

	back, err := amqp.DecodeAlertEvent(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Alert.Period != evt.Alert.Period || !back.OccurredAt.Equal(evt.OccurredAt) {
		t.Errorf("decoded = %+v", back)
	}
}

func TestDecodeAlertEvent_Invalid(t *testing.T) {
	if _, err := amqp.DecodeAlertEvent([]byte("not json")); err == nil {
		t.Error("expected error for invalid body")
	}
}
