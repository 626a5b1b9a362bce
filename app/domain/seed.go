package domain

// SeedStatus is the per-entry outcome of a seeding run
type SeedStatus string

const (
	SeedStatusOK          SeedStatus = "ok"
	SeedStatusErrorNoUser SeedStatus = "error_no_user"
	SeedStatusError       SeedStatus = "error"
)

// SeedResult reports what happened to one roster entry
type SeedResult struct {
	Email        string     `json:"email"`
	Created      bool       `json:"created"`
	RoleAssigned bool       `json:"role_assigned"`
	Status       SeedStatus `json:"status"`
	Error        string     `json:"error,omitempty"`
}

// Succeeded reports whether the entry ended with the account present and its role assigned
func (r SeedResult) Succeeded() bool {
	return r.Status == SeedStatusOK && r.RoleAssigned
}

// SeedReport is the body returned by the seeding endpoint
type SeedReport struct {
	OK      bool         `json:"ok"`
	Results []SeedResult `json:"results"`
}

// Failed returns the entries that did not fully succeed
func (r SeedReport) Failed() []SeedResult {
	var failed []SeedResult
	for _, res := range r.Results {
		if !res.Succeeded() {
			failed = append(failed, res)
		}
	}
	return failed
}
