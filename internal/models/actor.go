package models

// DefaultActorID is the user attributed to changes when the caller does not
// identify itself.
const DefaultActorID = "default-user"

// Actor identifies who performed a mutation.
type Actor struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
}

// DefaultActor returns the single-user fallback actor.
func DefaultActor() Actor {
	return Actor{UserID: DefaultActorID, DisplayName: "Current User"}
}

// OrDefault returns a, or the default actor when a carries no user id.
func (a Actor) OrDefault() Actor {
	if a.UserID == "" {
		return DefaultActor()
	}
	return a
}
