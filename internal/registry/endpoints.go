// Package registry holds the fixed tables of the upstream web API: endpoints,
// GraphQL document ids, friendly names, the browser identity sent on every
// request, and the markers used to scrape session tokens from the landing page.
package registry

import "time"

const (
	// HomeURL serves the landing page that embeds the session tokens.
	HomeURL = "https://www.meta.ai/"
	// APIURL is the first-party GraphQL endpoint used by the TOS mutation and
	// by authenticated sessions.
	APIURL = "https://www.meta.ai/api/graphql/"
	// GraphURL is the GraphQL endpoint used by guest sessions.
	GraphURL = "https://graph.meta.ai/graphql?locale=user"

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Relay protocol constants.
const (
	CallerClass = "RelayModern"

	AcceptTOSFriendlyName = "useAbraAcceptTOSForTempUserMutation"
	AcceptTOSDocID        = "7604648749596940"

	SendMessageFriendlyName = "useAbraSendMessageMutation"
	SendMessageDocID        = "7783822248314888"

	// StreamingStateDone marks the final message of an answer.
	StreamingStateDone = "OVERALL_DONE"
)

const (
	// TokenSettleDelay follows every guest credential acquisition. The upstream
	// rejects requests issued too soon after its cookies are minted.
	TokenSettleDelay = time.Second

	// RetryDelay separates resubmissions of a prompt that produced no answer.
	RetryDelay = 3 * time.Second

	// MaxRetries bounds resubmissions after the first attempt.
	MaxRetries = 3
)
