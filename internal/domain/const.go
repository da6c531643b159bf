package domain

const (
	// NSIDOrbitRecord is the collection every orbit record lives in.
	NSIDOrbitRecord = "com.starcharter.orbit.record"

	NSIDOrbitCreate    = "com.starcharter.orbit.create"
	NSIDOrbitGet       = "com.starcharter.orbit.get"
	NSIDOrbitList      = "com.starcharter.orbit.list"
	NSIDOrbitUpdate    = "com.starcharter.orbit.update"
	NSIDOrbitSubscribe = "com.starcharter.orbit.subscribe"
)

// DefaultListLimit applies when the list limit is absent or invalid.
const DefaultListLimit = 50

const (
	EventKindCreate = "create"
	EventKindUpdate = "update"
)
