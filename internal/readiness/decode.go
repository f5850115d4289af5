package readiness

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrUnrecognizedShape is returned by DecodeAssessments for documents that are
// neither a ranking, a single-role result nor a bare assessment.
var ErrUnrecognizedShape = errors.New("unrecognized assessment document")

// DecodeAssessments extracts role assessments from a decoded JSON document in
// any of the shapes the engine emits.
func DecodeAssessments(doc map[string]any) ([]RoleAssessment, error) {
	switch {
	case doc["matched_roles"] != nil:
		var out MatchedRoles
		if err := decode(doc, &out); err != nil {
			return nil, err
		}
		return out.MatchedRoles, nil
	case doc["role_assessment"] != nil:
		var out TargetRoleAssessment
		if err := decode(doc, &out); err != nil {
			return nil, err
		}
		return []RoleAssessment{out.RoleAssessment}, nil
	case doc["role_name"] != nil:
		var out RoleAssessment
		if err := decode(doc, &out); err != nil {
			return nil, err
		}
		return []RoleAssessment{out}, nil
	default:
		return nil, ErrUnrecognizedShape
	}
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode assessment: %w", err)
	}
	return nil
}
