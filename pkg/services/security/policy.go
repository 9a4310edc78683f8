package security

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// policyDocument is the subset of an IAM policy document the audit needs.
// Documents returned by the IAM API are URL-encoded JSON.
type policyDocument struct {
	Statement statementList `json:"Statement"`
}

type statement struct {
	Effect   string   `json:"Effect"`
	Action   flexList `json:"Action"`
	Resource flexList `json:"Resource"`
}

// statementList accepts both a single statement object and an array of
// statements, which the policy grammar allows.
type statementList []statement

func (l *statementList) UnmarshalJSON(data []byte) error {
	var many []statement
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one statement
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = statementList{one}
	return nil
}

// flexList accepts both a bare string and an array of strings, which the
// policy grammar allows for Action and Resource.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = flexList{one}
	return nil
}

func (l flexList) contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}

func parsePolicyDocument(encoded string) (*policyDocument, error) {
	decoded, err := url.QueryUnescape(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode policy document: %w", err)
	}

	var doc policyDocument
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy document: %w", err)
	}
	return &doc, nil
}

// isOverlyPermissive reports whether the document allows every action on
// every resource.
func (d *policyDocument) isOverlyPermissive() bool {
	for _, stmt := range d.Statement {
		if stmt.Effect == "Allow" && stmt.Action.contains("*") && stmt.Resource.contains("*") {
			return true
		}
	}
	return false
}
