// internal/session/models.go
package session

import (
	"time"

	"premiumradar-core/internal/pipeline/memory"
)

const keyPrefix = "copilot:session:"

// Session is one conversational session's persisted state.
type Session struct {
	ID        string       `json:"id"`
	Memory    memory.State `json:"memory"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func sessionKey(id string) string {
	return keyPrefix + id
}
