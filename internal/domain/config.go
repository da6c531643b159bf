package domain

// Config is the runtime view of the node configuration handed to
// services and handlers. Built once at startup, never read from
// ambient state inside request handlers.
type Config struct {
	FQDN        string
	ServiceDID  string
	AdminSecret string
}
