package core

import (
	"github.com/google/uuid"
	"pkt.systems/codexpad/schema"
)

func newDocumentID() schema.DocumentID {
	return schema.DocumentID(uuid.NewString())
}

func newMessageID(prefix string) schema.MessageID {
	return schema.MessageID(prefix + "-" + uuid.NewString())
}
