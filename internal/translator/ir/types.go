// Package ir holds the intermediate representation shared by the request
// builders (from_ir) and the response parsers (to_ir).
package ir

// SendRequest describes one send-message mutation.
type SendRequest struct {
	Message string

	// ExternalConversationID groups messages into one conversation.
	ExternalConversationID string
	// OfflineThreadingID identifies this client-submitted message.
	OfflineThreadingID string

	// Exactly one of AccessToken (guest) or FBDtsg (authenticated) is set.
	AccessToken string
	FBDtsg      string
}

// Message is one decoded line of upstream output.
type Message struct {
	// StreamingState of the bot response, e.g. "STREAMING" or "OVERALL_DONE".
	StreamingState string
	// ResponseID has the form <conversationId>_<threadId>_<extra>.
	ResponseID string
	// Text is the formatted composed text of the bot response.
	Text string
	// HasErrors reports a non-empty top level "errors" field.
	HasErrors bool

	Raw []byte
}

// Correlation splits ResponseID into its conversation and threading ids.
// ok is false when the id is absent or not of the expected shape.
func (m Message) Correlation() (conversationID, threadingID string, ok bool) {
	return SplitResponseID(m.ResponseID)
}
