package dispatch

import (
	"encoding/json"

	"github.com/vodhub/vodhub/source"
)

// Type discriminates stream events.
type Type string

const (
	TypeStart    Type = "start"
	TypeResult   Type = "source_result"
	TypeError    Type = "source_error"
	TypeComplete Type = "complete"
)

// Event is one lifecycle event of a dispatch. Which fields are set depends on Type.
type Event struct {
	Type Type `json:"type" jsonschema:"enum=start,enum=source_result,enum=source_error,enum=complete"`
	// Dispatch identifies the dispatch the event belongs to.
	Dispatch string `json:"dispatch"`

	Query          string `json:"query,omitempty"`
	TotalProviders int    `json:"totalProviders,omitempty"`

	Provider      string           `json:"provider,omitempty"`
	ProviderLabel string           `json:"providerLabel,omitempty"`
	Records       []*source.Result `json:"records,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Message       string           `json:"message,omitempty"`

	CompletedProviders int `json:"completedProviders,omitempty"`
}

// Terminal reports whether the event ends a provider task.
func (e Event) Terminal() bool {
	return e.Type == TypeResult || e.Type == TypeError
}

// MarshalJSON writes only the fields of the event's type. Counts are always present.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case TypeStart:
		return json.Marshal(struct {
			Type           Type   `json:"type"`
			Dispatch       string `json:"dispatch"`
			Query          string `json:"query"`
			TotalProviders int    `json:"totalProviders"`
		}{e.Type, e.Dispatch, e.Query, e.TotalProviders})
	case TypeResult:
		records := e.Records
		if records == nil {
			records = []*source.Result{}
		}
		return json.Marshal(struct {
			Type          Type             `json:"type"`
			Dispatch      string           `json:"dispatch"`
			Provider      string           `json:"provider"`
			ProviderLabel string           `json:"providerLabel"`
			Records       []*source.Result `json:"records"`
		}{e.Type, e.Dispatch, e.Provider, e.ProviderLabel, records})
	case TypeError:
		return json.Marshal(struct {
			Type          Type   `json:"type"`
			Dispatch      string `json:"dispatch"`
			Provider      string `json:"provider"`
			ProviderLabel string `json:"providerLabel"`
			Reason        string `json:"reason"`
			Message       string `json:"message"`
		}{e.Type, e.Dispatch, e.Provider, e.ProviderLabel, e.Reason, e.Message})
	case TypeComplete:
		return json.Marshal(struct {
			Type               Type   `json:"type"`
			Dispatch           string `json:"dispatch"`
			CompletedProviders int    `json:"completedProviders"`
		}{e.Type, e.Dispatch, e.CompletedProviders})
	default:
		type plain Event
		return json.Marshal(plain(e))
	}
}
