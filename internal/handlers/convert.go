package handlers

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseOptionalID converts an optional hex id from a request body. A nil or
// empty value stays nil.
func parseOptionalID(s *string) (*primitive.ObjectID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", *s)
	}
	return &id, nil
}

// parseIDs converts a list of hex ids from a request body. A nil input stays
// nil so patch semantics can tell "absent" from "empty".
func parseIDs(ss []string) ([]primitive.ObjectID, error) {
	if ss == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(ss))
	for _, s := range ss {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
