package identifier

import (
	"fmt"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

// MakeURI builds the at:// URI addressing a record. All three
// components must be non-empty.
func MakeURI(repo, collection, rkey string) (syntax.ATURI, error) {
	if repo == "" || collection == "" || rkey == "" {
		return "", fmt.Errorf("uri components must not be empty")
	}
	return syntax.ParseATURI("at://" + repo + "/" + collection + "/" + rkey)
}

// ParseURI splits an at:// URI into its repo, collection and record key
// components. A URI missing any component is rejected.
func ParseURI(raw string) (repo, collection, rkey string, err error) {
	uri, err := syntax.ParseATURI(raw)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid at-uri: %w", err)
	}

	repo = uri.Authority().String()
	collection = uri.Collection().String()
	rkey = uri.RecordKey().String()

	if repo == "" || collection == "" || rkey == "" {
		return "", "", "", fmt.Errorf("at-uri must name a repo, collection and record key")
	}

	return repo, collection, rkey, nil
}
