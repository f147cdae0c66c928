package jmap

import (
	"encoding/json"
	"fmt"
)

// JMAP capability URNs used by every request
var usingCapabilities = []string{
	"urn:ietf:params:jmap:core",
	"urn:ietf:params:jmap:mail",
}

// Invocation is one JMAP method call or response, serialized on the wire
// as a three-element array of [name, arguments, call id].
type Invocation struct {
	Name string
	Args json.RawMessage
	ID   string
}

// MarshalJSON serializes the invocation as a JMAP triple
func (inv Invocation) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{inv.Name, inv.Args, inv.ID})
}

// UnmarshalJSON deserializes a JMAP triple
func (inv *Invocation) UnmarshalJSON(data []byte) error {
	var parts [3]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("invocation is not a JMAP triple: %w", err)
	}
	if err := json.Unmarshal(parts[0], &inv.Name); err != nil {
		return fmt.Errorf("invocation name is not a string: %w", err)
	}
	if err := json.Unmarshal(parts[2], &inv.ID); err != nil {
		return fmt.Errorf("invocation call id is not a string: %w", err)
	}
	inv.Args = parts[1]
	return nil
}

// apiRequest is the top-level JMAP request envelope
type apiRequest struct {
	Using       []string     `json:"using"`
	MethodCalls []Invocation `json:"methodCalls"`
}

// apiResponse is the top-level JMAP response envelope
type apiResponse struct {
	MethodResponses []Invocation `json:"methodResponses"`
}

// sessionResponse carries the account ids from the JMAP session resource
type sessionResponse struct {
	PrimaryAccounts map[string]string `json:"primaryAccounts"`
}

// methodError is the argument shape of an "error" method response
type methodError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// resultReference chains one method call's output into the next without
// the caller re-transmitting it
type resultReference struct {
	ResultOf string `json:"resultOf"`
	Name     string `json:"name"`
	Path     string `json:"path"`
}

// queryFilter is the Email/query filter for a triage window
type queryFilter struct {
	After              string   `json:"after"`
	Before             string   `json:"before"`
	InMailboxOtherThan []string `json:"inMailboxOtherThan,omitempty"`
}

// querySort orders Email/query results
type querySort struct {
	Property    string `json:"property"`
	IsAscending bool   `json:"isAscending"`
}
