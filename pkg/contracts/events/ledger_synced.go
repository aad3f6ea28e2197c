package events

type LedgerSynced struct {
	Paths    []string `json:"paths"` // documentos empurrados para o remoto
	TsUnixMs int64    `json:"ts_unix_ms"`
}
