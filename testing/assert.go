package testing

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/smithy-lang/schema-runtime/encoding/cbor"
)

// T provides the testing interface for capturing failures with testing assert
// utilities.
type T interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Helper()
}

// JSONEqual compares to JSON documents and identifies if the documents contain
// the same values. Returns an error if the two documents are not equal.
func JSONEqual(expectBytes, actualBytes []byte) error {
	var expect interface{}
	if err := json.Unmarshal(expectBytes, &expect); err != nil {
		return fmt.Errorf("failed to unmarshal expected bytes, %v", err)
	}

	var actual interface{}
	if err := json.Unmarshal(actualBytes, &actual); err != nil {
		return fmt.Errorf("failed to unmarshal actual bytes, %v", err)
	}

	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		return fmt.Errorf("JSON mismatch (-expect +actual):\n%s", diff)
	}

	return nil
}

// AssertJSONEqual compares to JSON documents and identifies if the documents
// contain the same values. Emits a testing error, and returns false if the
// documents are not equal.
func AssertJSONEqual(t T, expect, actual []byte) bool {
	t.Helper()

	if err := JSONEqual(expect, actual); err != nil {
		t.Errorf("expect JSON equal, %v", err)
		return false
	}

	return true
}

// CBOREqual compares two CBOR-encoded documents and identifies if they
// decode to the same value tree. Returns an error if they are not equal.
func CBOREqual(expectBytes, actualBytes []byte) error {
	expect, err := cbor.Decode(expectBytes)
	if err != nil {
		return fmt.Errorf("failed to decode expected bytes, %v", err)
	}

	actual, err := cbor.Decode(actualBytes)
	if err != nil {
		return fmt.Errorf("failed to decode actual bytes, %v", err)
	}

	if diff := cmp.Diff(expect, actual); len(diff) != 0 {
		return fmt.Errorf("CBOR mismatch (-expect +actual):\n%s", diff)
	}

	return nil
}

// AssertCBOREqual compares two CBOR-encoded documents and identifies if they
// decode to the same value tree. Emits a testing error, and returns false if
// they are not equal.
func AssertCBOREqual(t T, expect, actual []byte) bool {
	t.Helper()

	if err := CBOREqual(expect, actual); err != nil {
		t.Errorf("expect CBOR equal, %v", err)
		return false
	}

	return true
}
