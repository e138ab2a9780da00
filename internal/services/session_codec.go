package services

import (
	"encoding/json"
	"fmt"

	"github.com/yungbote/mediaplan-backend/internal/types"
)

func encodeSession(session *types.ImportSession) ([]byte, error) {
	if session == nil || session.SessionID == "" {
		return nil, fmt.Errorf("session requires an id")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", session.SessionID, err)
	}
	return raw, nil
}

func decodeSession(raw []byte) (*types.ImportSession, error) {
	var session types.ImportSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}
