// models/junk.go
package models

// Junk is a catalog entry for a per-hole bonus/penalty marker (birdie,
// greenie, sandy, ...). The catalog is loaded once per session and is
// read-only after that.
type Junk struct {
	JunkID   string `json:"junkId"`
	JunkName string `json:"junkName"`
}
