package instance

import "os"

// GetID returns the running instance identifier used in log fields. Heroku
// style dynos expose DYNO; anything else can set MADARSA_INSTANCE_ID.
func GetID() string {
	if id := os.Getenv("MADARSA_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
