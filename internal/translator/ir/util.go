package ir

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Conversation IDs
// =============================================================================

// NewConversationID generates a UUID v4 string.
func NewConversationID() string {
	return uuid.NewString()
}

// =============================================================================
// Offline Threading IDs
// =============================================================================

const threadingRandomBits = 22

// NewOfflineThreadingID returns a time ordered, collision resistant id for a
// client-submitted message: the millisecond timestamp shifted left 22 bits,
// OR'd with 22 random bits, printed as an unsigned decimal.
func NewOfflineThreadingID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	return offlineThreadingID(time.Now(), binary.BigEndian.Uint64(buf[:]))
}

func offlineThreadingID(now time.Time, random uint64) string {
	const mask22 = uint64(1)<<threadingRandomBits - 1
	ts := uint64(now.UnixMilli())
	id := (ts<<threadingRandomBits | random&mask22) & math.MaxInt64
	return strconv.FormatUint(id, 10)
}

// =============================================================================
// Response IDs
// =============================================================================

// SplitResponseID parses <conversationId>_<threadId>_<extra>.
func SplitResponseID(id string) (conversationID, threadingID string, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
