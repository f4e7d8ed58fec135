package net

import (
	"encoding/json"
	"fmt"

	"LocalNotes/internal/document"
	"LocalNotes/internal/state"
)

const typeDocument = "document"

// NetworkMessage is the frame a host pushes to its viewers.
type NetworkMessage struct {
	Type     string          `json:"type"`
	Host     string          `json:"host,omitempty"`
	Revision uint64          `json:"revision"`
	Active   int             `json:"active"`
	Pages    json.RawMessage `json:"pages,omitempty"`
}

func encodeSnapshot(hostID string, snap state.Snapshot) ([]byte, error) {
	pages, err := document.Marshal(snap.Pages)
	if err != nil {
		return nil, err
	}
	return json.Marshal(NetworkMessage{
		Type:     typeDocument,
		Host:     hostID,
		Revision: snap.Revision,
		Active:   snap.Active,
		Pages:    pages,
	})
}

// Update is a document received by a viewer.
type Update struct {
	Host     string
	Revision uint64
	Active   int
	Pages    state.Pages
}

func decodeUpdate(data []byte) (Update, error) {
	var msg NetworkMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Update{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type != typeDocument {
		return Update{}, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	pages, err := document.Unmarshal(msg.Pages)
	if err != nil {
		return Update{}, err
	}
	return Update{
		Host:     msg.Host,
		Revision: msg.Revision,
		Active:   msg.Active,
		Pages:    pages,
	}, nil
}
