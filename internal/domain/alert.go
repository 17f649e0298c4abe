package domain

import "time"

// AlertCode identifies an alert rule.
type AlertCode string

const (
	AlertGoalNear        AlertCode = "meta_80"
	AlertGoalReached     AlertCode = "meta_atingida"
	AlertSalesDrop       AlertCode = "queda_vendas"
	AlertLoss            AlertCode = "prejuizo"
	AlertExpenseReminder AlertCode = "lembrete_despesas"
)

// AlertLevel is the visual severity on the Alerts screen.
type AlertLevel string

const (
	LevelSuccess AlertLevel = "sucesso"
	LevelWarning AlertLevel = "atencao"
	LevelInfo    AlertLevel = "info"
)

// Alert is a notification derived from a period summary.
type Alert struct {
	Code    AlertCode  `json:"codigo"`
	Level   AlertLevel `json:"nivel"`
	Title   string     `json:"titulo"`
	Message string     `json:"mensagem"`
	Period  Period     `json:"periodo"`
}

// AlertList is returned by GET /v1/alertas.
type AlertList struct {
	Period  Period   `json:"periodo"`
	Alerts  []Alert  `json:"alertas"`
	Notices []string `json:"avisos,omitempty"`
}

// AlertEvent is published when a write makes an alert fire for the first time.
type AlertEvent struct {
	Owner      string    `json:"usuario"`
	Alert      Alert     `json:"alerta"`
	OccurredAt time.Time `json:"ocorridoEm"`
}
