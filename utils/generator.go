package utils

import (
	"crypto/rand"
	"encoding/hex"
)

const meetingRoomBytes = 12

// GenerateMeetingLink returns an opaque meeting URL for a confirmed
// session. The link's structure is never consumed by the core.
func GenerateMeetingLink() string {
	b := make([]byte, meetingRoomBytes)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return "https://meet.tutorlink.io/" + hex.EncodeToString(b)
}
