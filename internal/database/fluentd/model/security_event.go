package model

// SecurityEvent 刪除授權稽核紀錄（嘗試與拒絕各一筆）
type SecurityEvent struct {
	Event         string `json:"event"`
	TenantID      string `json:"tenant_id"`
	RequesterID   string `json:"requester_id,omitempty"`
	RequesterRole string `json:"requester_role"`
	TargetID      string `json:"target_id"`
	TargetRole    string `json:"target_role"`
	Reason        string `json:"reason,omitempty"`
	Version       string `json:"version,omitempty"`
	LoggedAt      string `json:"logged_at"`
}
