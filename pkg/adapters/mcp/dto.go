package mcp

import (
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/registry"
)

// CreateArgs are the arguments of create_machine.
type CreateArgs struct {
	Alphabet string `json:"alphabet"`
	Example  string `json:"example"`
	Name     string `json:"name"`
}

// MachineArgs name the machine a tool acts on.
type MachineArgs struct {
	Machine string `json:"machine"`
}

// AddStateArgs are the arguments of add_state.
type AddStateArgs struct {
	Machine     string               `json:"machine"`
	Name        string               `json:"name"`
	Transitions domain.TransitionMap `json:"transitions,omitempty"`
}

// TransitionArgs are the arguments of set_transition.
type TransitionArgs struct {
	Machine string `json:"machine"`
	State   int    `json:"state"`
	Symbol  string `json:"symbol"`
	Write   string `json:"write"`
	Move    string `json:"move"`
	Next    string `json:"next"`
}

// TapeArgs are the arguments of set_tape.
type TapeArgs struct {
	Machine string `json:"machine"`
	Tape    string `json:"tape"`
}

// StepArgs are the arguments of step.
type StepArgs struct {
	Machine string `json:"machine"`
	Count   int    `json:"count,omitempty"`
}

// MachineResponse describes a newly created machine.
type MachineResponse struct {
	ID       string          `json:"id" jsonschema_description:"Machine id used by every other tool"`
	Alphabet string          `json:"alphabet" jsonschema_description:"User symbols, blank excluded"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// ListResponse holds machine ids in creation order.
type ListResponse struct {
	Machines []string `json:"machines"`
}

// ExamplesResponse lists the built-in machines.
type ExamplesResponse struct {
	Examples []registry.Entry `json:"examples"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Deleted string `json:"deleted"`
}

// StateResponse holds the id of an added state.
type StateResponse struct {
	State    domain.StateID  `json:"state" jsonschema_description:"Index of the new state"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// SnapshotResponse wraps the snapshot after an edit.
type SnapshotResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
}

// StepResponse reports a batch of steps.
type StepResponse struct {
	Outcome  string          `json:"outcome" jsonschema_description:"Outcome of the last step: stepped, halted or faulted"`
	Applied  int             `json:"applied" jsonschema_description:"Transitions applied by this call"`
	Error    string          `json:"error,omitempty" jsonschema_description:"Configuration error when faulted"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// InspectResponse shows a machine in every text form.
type InspectResponse struct {
	Snapshot domain.Snapshot   `json:"snapshot"`
	Tape     string            `json:"tape" jsonschema_description:"Tape window with the head in brackets"`
	Table    string            `json:"table" jsonschema_description:"Transition table in Markdown"`
	Graph    string            `json:"graph" jsonschema_description:"State diagram in Mermaid"`
	Issues   []validator.Issue `json:"issues,omitempty" jsonschema_description:"Missing transitions, unknown targets and unreachable states"`
}
