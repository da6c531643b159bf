// Package identifier derives content fingerprints, AT-URIs and record
// keys for orbit records.
package identifier

import (
	"encoding/json"

	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// Fingerprint computes the content identifier of a record: the record
// is canonicalized to deterministic JSON bytes, digested with SHA-256
// and wrapped as a CIDv1 with the dag-json codec. Pure and
// deterministic; identical content always yields the same CID.
func Fingerprint(record any) (cid.Cid, error) {
	data, err := Canonicalize(record)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "canonicalize record")
	}

	sum, err := mh.Sum(data, mh.SHA2_256, -1)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "multihash sum")
	}

	return cid.NewCidV1(cid.DagJSON, sum), nil
}

// Canonicalize serializes a record to a stable byte sequence. The value
// is forced through a generic JSON round trip so object keys are
// emitted in sorted order regardless of the input's field order.
func Canonicalize(record any) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
