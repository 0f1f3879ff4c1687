package entity

import (
	"strings"

	"marketchat/pkg/errors"
)

const maxIDLength = 128

// External input carries identifiers as raw strings; every component parses
// them through exactly one of these constructors before use.

func ParseUserID(raw string) (string, error) {
	return parseID(raw, "user id")
}

func ParseRoomID(raw string) (string, error) {
	return parseID(raw, "room id")
}

func ParseProductID(raw string) (string, error) {
	return parseID(raw, "product id")
}

func ParseMessageID(raw string) (string, error) {
	return parseID(raw, "message id")
}

func ParseConnectionID(raw string) (string, error) {
	return parseID(raw, "connection id")
}

func parseID(raw, kind string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errors.Validation("missing "+kind, nil)
	}
	if len(id) > maxIDLength {
		return "", errors.Validation(kind+" is too long", nil)
	}
	// Identifiers become Firestore document paths; a separator would change
	// the addressed document.
	if strings.ContainsAny(id, "/ \t\n") {
		return "", errors.Validation("malformed "+kind, nil)
	}
	return id, nil
}
