package persistence

// Storage keys. Each entity collection is a JSON array under its key; the
// active session is a single JSON object.
const (
	BookingsKey      = "nrc9_bookings"
	UsersKey         = "nrc9_users"
	NotificationsKey = "nrc9_notifications"
	FacilitiesKey    = "nrc9_facilities"
	CurrentUserKey   = "nrc9_current_user"
)

// SessionKey names the storage slot holding one authenticated session.
type SessionKey string

// DefaultSessionKey is the single-session slot used by embedded clients.
const DefaultSessionKey SessionKey = CurrentUserKey

// TokenSessionKey derives the slot used for a session issued under token.
func TokenSessionKey(token string) SessionKey {
	return SessionKey(CurrentUserKey + ":" + token)
}
