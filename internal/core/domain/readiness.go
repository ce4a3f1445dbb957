package domain

import "time"

// Stage names an asynchronous initialisation step that gates searching.
type Stage string

// Initialisation stages.
const (
	// StageTokenizer builds the morphological dictionary. Registered only
	// when the reading path is enabled.
	StageTokenizer Stage = "tokenizer"

	// StageDataset loads the first dataset.
	StageDataset Stage = "dataset"
)

// StageState is the progress of a Stage.
type StageState string

// Stage states.
const (
	StagePending StageState = "pending"
	StageReady   StageState = "ready"
	StageFailed  StageState = "failed"
)

// StageStatus is a snapshot of one stage.
type StageStatus struct {
	Stage Stage      `json:"stage"`
	State StageState `json:"state"`
	Error string     `json:"error,omitempty"`
}

// Status summarises readiness and the current dataset.
type Status struct {
	// Ready is true once every registered stage is ready.
	Ready bool `json:"ready"`

	// Stages lists every registered stage in registration order.
	Stages []StageStatus `json:"stages"`

	// Version is the current dataset version, 0 before the first load.
	Version uint64 `json:"version"`

	// Records is the number of records in the current dataset.
	Records int `json:"records"`

	// Source is the locator of the current dataset.
	Source string `json:"source,omitempty"`

	// Category is the category selector of the current dataset.
	Category string `json:"category,omitempty"`

	// LoadedAt is when the current dataset was published.
	LoadedAt time.Time `json:"loaded_at,omitzero"`

	// LastError is the error of the most recent load attempt, if it failed.
	LastError string `json:"last_error,omitempty"`
}
