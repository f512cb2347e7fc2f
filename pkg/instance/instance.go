package instance

import (
	"os"

	"github.com/angelmondragon/contactbook-backend/pkg/env"
)

// GetID identifies the running API process in logs. DYNO wins over
// CONTACTBOOK_INSTANCE_ID; the hostname is the last resort.
func GetID() string {
	if id := env.Get("DYNO", env.Get("CONTACTBOOK_INSTANCE_ID", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
