package dbtypes

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDArray_RoundTrip(t *testing.T) {
	ids := UUIDArray{uuid.New(), uuid.New()}

	val, err := ids.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var decoded UUIDArray
	if err := decoded.Scan(val); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != ids[0] || decoded[1] != ids[1] {
		t.Fatalf("round trip mismatch: %v vs %v", decoded, ids)
	}
}

func TestUUIDArray_ScanEmpty(t *testing.T) {
	var decoded UUIDArray
	if err := decoded.Scan("{}"); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty array, got %v", decoded)
	}
}

func TestUUIDArray_Contains(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	arr := UUIDArray{a}
	if !arr.Contains(a) {
		t.Fatal("expected member to be found")
	}
	if arr.Contains(b) {
		t.Fatal("expected non-member to be absent")
	}
}
