package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// /audit-logs（管理者向け）
type AuditLogAPI struct {
	c *Client
}

type AuditLog struct {
	ID           string    `json:"_id"`
	ActorID      string    `json:"actorId"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Before       string    `json:"before"`
	After        string    `json:"after"`
	CreatedAt    time.Time `json:"createdAt"`
}

// 空の項目は送らない
type AuditLogQuery struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	From         time.Time
	To           time.Time
	Page         int
	Limit        int
}

func (a *AuditLogAPI) List(ctx context.Context, q AuditLogQuery) ([]AuditLog, error) {
	query := pageQuery(q.Page, q.Limit)
	for k, v := range map[string]string{
		"actorId":      q.ActorID,
		"action":       q.Action,
		"resourceType": q.ResourceType,
		"resourceId":   q.ResourceID,
	} {
		if v != "" {
			query.Set(k, v)
		}
	}
	if !q.From.IsZero() {
		query.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		query.Set("to", q.To.UTC().Format(time.RFC3339))
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/audit-logs",
		query:    query,
		fallback: "Failed to fetch audit logs",
	}, &raw); err != nil {
		return []AuditLog{}, err
	}
	return decodeList[AuditLog](raw, "auditLogs")
}
