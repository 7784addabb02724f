package topics

const (
	// Atividades do ledger (apostas, liquidações, ajustes)
	ActivityRecorded = "activity_recorded"

	// DLQ
	ActivityRecordedDLQ = "activity_recorded_dlq"
)
