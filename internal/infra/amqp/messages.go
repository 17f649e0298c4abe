package amqp

import (
	"encoding/json"

	"github.com/AnaBeatrizVictorio/colhecash/internal/domain"
)

// EncodeAlertEvent renders the wire body of an alert message.
func EncodeAlertEvent(evt domain.AlertEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// DecodeAlertEvent parses a body produced by EncodeAlertEvent.
func DecodeAlertEvent(data []byte) (*domain.AlertEvent, error) {
	var evt domain.AlertEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}
