package events

// SessionStartPayload is the payload for session_start events.
type SessionStartPayload struct {
	SessionID     string `json:"session_id"`
	RepoPath      string `json:"repo_path"`
	RepoName      string `json:"repo_name"`
	ServerVersion string `json:"server_version"`
}

// SessionEndPayload is the payload for session_end events.
type SessionEndPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

// NewSessionStartEvent creates a new session_start event.
func NewSessionStartEvent(sessionID, repoPath, repoName, serverVersion string) *BaseEvent {
	return NewEvent(EventTypeSessionStart, SessionStartPayload{
		SessionID:     sessionID,
		RepoPath:      repoPath,
		RepoName:      repoName,
		ServerVersion: serverVersion,
	})
}

// NewSessionEndEvent creates a new session_end event.
func NewSessionEndEvent(sessionID, reason string) *BaseEvent {
	return NewEvent(EventTypeSessionEnd, SessionEndPayload{
		SessionID: sessionID,
		Reason:    reason,
	})
}
