package schema

// Case is one diagnosis request in a batch file.
type Case struct {
	ID       string        `json:"id" yaml:"id" validate:"required"`
	Plant    PlantCategory `json:"plant" yaml:"plant" validate:"required,oneof=tomato potato chilli"`
	Symptoms []string      `json:"symptoms" yaml:"symptoms"`
}

// CaseFile is the document read by the batch command.
type CaseFile struct {
	Cases []Case `json:"cases" yaml:"cases" validate:"required,min=1,dive"`
}

// CaseResult pairs a case with the outcome of its inference run.
type CaseResult struct {
	Case    Case            `json:"case"`
	Summary Summary         `json:"summary"`
	Result  InferenceResult `json:"result"`
}

// BatchReport is the top-level output document of the batch command.
type BatchReport struct {
	Tool          string       `json:"tool"`
	Version       string       `json:"version"`
	RunID         string       `json:"run_id"`
	KnowledgeBase string       `json:"knowledge_base"`
	Cases         []CaseResult `json:"cases"`
}
