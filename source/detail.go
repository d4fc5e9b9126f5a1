package source

// Detail is a fully resolved title: every episode is a playable URL.
type Detail struct {
	Result
	// PageURL is the provider page the detail was resolved from, when there is one.
	PageURL string `json:"pageUrl,omitempty"`
}
