package dto

const (
	LiveOpSubscribe   = "subscribe"
	LiveOpUnsubscribe = "unsubscribe"

	LiveTypeSnapshot = "snapshot"
	LiveTypeError    = "error"
)

// LiveRequest is a frame sent by the client over /api/live.
type LiveRequest struct {
	Op         string `json:"op"`
	SubId      string `json:"sub_id"`
	Collection string `json:"collection,omitempty"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
}

// LiveFrame is pushed by the server: the full current result set of one subscription.
type LiveFrame struct {
	Type      string             `json:"type"`
	SubId     string             `json:"sub_id"`
	Notebooks []NotebookResponse `json:"notebooks,omitempty"`
	Tasks     []TaskResponse     `json:"tasks,omitempty"`
	Message   string             `json:"message,omitempty"`
}
