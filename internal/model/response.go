package model

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IngestResult - 단건 수집 결과
type IngestResult struct {
	IncidentID           string   `json:"incident_id"`
	Status               Status   `json:"status"`
	Severity             Severity `json:"severity"`
	IsDuplicate          bool     `json:"is_duplicate"`
	OccurrenceCount      int64    `json:"occurrence_count"`
	RemediationTriggered bool     `json:"remediation_triggered"`
}

// BatchItemResult - 배치 내 성공 건 (Index 는 요청 배열 인덱스)
type BatchItemResult struct {
	Index int `json:"index"`
	IngestResult
}

// BatchItemFailure - 배치 내 실패 건
type BatchItemFailure struct {
	Index int               `json:"index"`
	Error string            `json:"error"`
	Type  string            `json:"type"`
	Field map[string]string `json:"fields,omitempty"`
}

// BatchResult - 배치 수집 결과
type BatchResult struct {
	BatchID     string             `json:"batch_id"`
	Processed   []BatchItemResult  `json:"processed"`
	Failed      []BatchItemFailure `json:"failed"`
	FailedCount int                `json:"failedCount"`
}

// IncidentEnvelope - Incident 상세 API 응답 구조체
type IncidentEnvelope struct {
	Status string    `json:"status"`
	Data   *Incident `json:"data"`
}

// IncidentListEnvelope - Incident 목록 API 응답 구조체
type IncidentListEnvelope struct {
	Status string     `json:"status"`
	Data   []Incident `json:"data"`
}

// DeleteFingerprintResponse - fingerprint 삭제 API 응답 구조체
type DeleteFingerprintResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
}
