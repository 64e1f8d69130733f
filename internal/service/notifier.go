package service

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Notifier pushes ledger events to connected clients. Publish must not block.
type Notifier interface {
	Publish(message []byte)
}

func publish(n Notifier, logger *zap.Logger, payload map[string]interface{}) {
	if n == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.Error("encode event", zap.Error(err))
		return
	}
	n.Publish(msg)
}
