package types

import (
	"encoding/json"
	"testing"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id.IsZero() {
			t.Fatal("NewID returned zero ID")
		}
		if seen[id] {
			t.Fatalf("NewID returned duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid uuid", input: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", wantErr: false},
		{name: "empty string", input: "", wantErr: true},
		{name: "not a uuid", input: "step_1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestID_JSONRoundTrip(t *testing.T) {
	id := NewID()

	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ID
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded != id {
		t.Errorf("round trip = %s, want %s", decoded, id)
	}
}

func TestID_MarshalZero(t *testing.T) {
	var id ID
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("zero ID marshals to %s, want null", data)
	}
}
