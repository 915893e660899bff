package store

import (
	"fmt"
	"strings"
)

// Collection and document names used by the API.
const (
	UsersCollection                = "users"
	ProfilesCollection             = "profiles"
	ProfileDocID                   = "user_profile"
	LogsCollection                 = "logs"
	AllergensCollection            = "allergens"
	EducationalResourcesCollection = "educational_resources"
)

// UserProfilePath is the caller's single profile document.
func UserProfilePath(uid string) (string, error) {
	if err := ValidateID(uid); err != nil {
		return "", err
	}
	return Join(UsersCollection, uid, ProfilesCollection, ProfileDocID), nil
}

// UserLogsPath is the caller's append-only log collection.
func UserLogsPath(uid string) (string, error) {
	if err := ValidateID(uid); err != nil {
		return "", err
	}
	return Join(UsersCollection, uid, LogsCollection), nil
}

// AllergenPath is one shared allergen reference document.
func AllergenPath(id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return Join(AllergensCollection, id), nil
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// ValidateID rejects identifiers that would escape their path segment.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.Contains(id, "/") {
		return fmt.Errorf("%w: bad segment %q", ErrInvalidPath, id)
	}
	return nil
}

// SplitDocPath returns the parent collection path and the document id of a
// document path. Document paths have an even number of segments.
func SplitDocPath(docPath string) (collection, id string, err error) {
	segs, err := segments(docPath)
	if err != nil {
		return "", "", err
	}
	if len(segs)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q is a collection path", ErrInvalidPath, docPath)
	}
	return Join(segs[:len(segs)-1]...), segs[len(segs)-1], nil
}

// ValidateCollectionPath checks that p names a collection (odd segment count).
func ValidateCollectionPath(p string) error {
	segs, err := segments(p)
	if err != nil {
		return err
	}
	if len(segs)%2 != 1 {
		return fmt.Errorf("%w: %q is a document path", ErrInvalidPath, p)
	}
	return nil
}

func segments(p string) ([]string, error) {
	if p == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		if err := ValidateID(s); err != nil {
			return nil, err
		}
	}
	return segs, nil
}
