package identifier

import "testing"

func TestMakeAndParseURI(t *testing.T) {
	uri, err := MakeURI("did:web:orbits.example.com", "com.starcharter.orbit.record", "3jzfcijpj2z2a")
	if err != nil {
		t.Fatalf("make uri failed: %v", err)
	}

	want := "at://did:web:orbits.example.com/com.starcharter.orbit.record/3jzfcijpj2z2a"
	if uri.String() != want {
		t.Fatalf("expected %s got %s", want, uri)
	}

	repo, collection, rkey, err := ParseURI(uri.String())
	if err != nil {
		t.Fatalf("parse uri failed: %v", err)
	}
	if repo != "did:web:orbits.example.com" {
		t.Fatalf("unexpected repo %q", repo)
	}
	if collection != "com.starcharter.orbit.record" {
		t.Fatalf("unexpected collection %q", collection)
	}
	if rkey != "3jzfcijpj2z2a" {
		t.Fatalf("unexpected rkey %q", rkey)
	}
}

func TestMakeURIEmptyComponent(t *testing.T) {
	if _, err := MakeURI("", "com.starcharter.orbit.record", "abc"); err == nil {
		t.Fatalf("expected error for empty repo")
	}
	if _, err := MakeURI("did:web:x.example.com", "", "abc"); err == nil {
		t.Fatalf("expected error for empty collection")
	}
	if _, err := MakeURI("did:web:x.example.com", "com.starcharter.orbit.record", ""); err == nil {
		t.Fatalf("expected error for empty rkey")
	}
}

func TestParseURIRejectsPartial(t *testing.T) {
	if _, _, _, err := ParseURI("at://did:web:x.example.com/com.starcharter.orbit.record"); err == nil {
		t.Fatalf("expected error for uri without record key")
	}
	if _, _, _, err := ParseURI("not a uri"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestNewRecordKeyDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := NewRecordKey()
		if key == "" {
			t.Fatalf("empty record key")
		}
		if seen[key] {
			t.Fatalf("record key %q repeated", key)
		}
		seen[key] = true
	}
}
