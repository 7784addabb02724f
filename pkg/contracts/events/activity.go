package events

// Evento publicado no tópico "activity_recorded" após cada operação do ledger.
// O registro em banco já foi persistido na mesma transação da operação;
// este evento serve apenas para fan-out (notificações, feed ao vivo).
type ActivityRecorded struct {
	ActivityID  string         `json:"activity_id"`
	AccountID   string         `json:"account_id,omitempty"`
	ActionType  string         `json:"action_type"` // bet_placed | market_settled | market_voided | balance_adjusted | ...
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	TsUnixMs    int64          `json:"ts_unix_ms"`
}
