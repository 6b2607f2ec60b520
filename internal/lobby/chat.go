package lobby

import "strings"

// AddChatMessage trims whitespace, rejects an empty result, truncates to
// 280 characters, timestamps in milliseconds, assigns a monotonically
// increasing id, and appends to the ring buffer capped at
// cfg.MaxChatMessages.
func (l *Lobby) AddChatMessage(userID, text string) (ChatMessage, error) {
	u, ok := l.usersByID[userID]
	if !ok {
		return ChatMessage{}, ErrNotJoined
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ChatMessage{}, ErrEmptyMessage
	}
	if r := []rune(trimmed); len(r) > maxChatMessageLen {
		trimmed = string(r[:maxChatMessageLen])
	}

	l.chatSeq++
	msg := ChatMessage{
		ID:          itoa(l.chatSeq),
		UserID:      userID,
		Name:        u.Name,
		Text:        trimmed,
		TimestampMS: l.now(),
	}
	l.chat = append(l.chat, msg)
	if len(l.chat) > l.cfg.MaxChatMessages {
		l.chat = l.chat[len(l.chat)-l.cfg.MaxChatMessages:]
	}
	return msg, nil
}
