package redis

import (
	"fmt"

	"github.com/moonpull/moonpull-web/internal/model"
)

// Key prefix for all platform data
const keyPrefix = "moonpull"

// memberKey returns the Redis key for a Member
func memberKey(id model.MemberID) string {
	return fmt.Sprintf("%s:member:%s", keyPrefix, id)
}

// credentialKey returns the Redis key for a Credential
func credentialKey(memberID model.MemberID) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, memberID)
}

// loginIDIndexKey returns the Redis key for the login id -> member id index
func loginIDIndexKey(loginID string) string {
	return fmt.Sprintf("%s:idx:login_id:%s", keyPrefix, loginID)
}

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// sessionsIndexKey returns the Redis key for the SET of live session keys
func sessionsIndexKey() string {
	return fmt.Sprintf("%s:idx:sessions", keyPrefix)
}
