package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

// testSpec is a simple ValidatingSpec for testing
type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset   Asset[*testSpec]
		expErrs []string
	}{
		"valid asset": {
			asset: Asset[*testSpec]{Version: 1, Identifier: "iron_ingot", Spec: &testSpec{valid: true}},
		},
		"version not set": {
			asset:   Asset[*testSpec]{Version: 0, Identifier: "iron_ingot", Spec: &testSpec{valid: true}},
			expErrs: []string{"version must be set"},
		},
		"empty identifier": {
			asset:   Asset[*testSpec]{Version: 1, Identifier: "", Spec: &testSpec{valid: true}},
			expErrs: []string{"id must be set"},
		},
		"identifier with spaces": {
			asset:   Asset[*testSpec]{Version: 1, Identifier: "iron ingot", Spec: &testSpec{valid: true}},
			expErrs: []string{"id must contain only"},
		},
		"identifier with hyphen and underscore": {
			asset: Asset[*testSpec]{Version: 1, Identifier: "loot_table-rabbit", Spec: &testSpec{valid: true}},
		},
		"missing spec": {
			asset:   Asset[*testSpec]{Version: 1, Identifier: "iron_ingot"},
			expErrs: []string{"spec must be set"},
		},
		"multiple errors": {
			asset: Asset[*testSpec]{Version: 0, Identifier: "", Spec: &testSpec{valid: false}},
			expErrs: []string{
				"version must be set",
				"id must be set",
				"spec is invalid",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}

			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}

func TestSmartIdentifier_JSON(t *testing.T) {
	type holder struct {
		Ref SmartIdentifier[*testSpec] `json:"ref"`
	}

	var h holder
	err := json.Unmarshal([]byte(`{"ref":"wolf_pelt"}`), &h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "key", h.Ref.Id(), "wolf_pelt")

	out, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "json", string(out), `{"ref":"wolf_pelt"}`)
}

func TestSmartIdentifier_Resolve(t *testing.T) {
	st, err := NewMemoryStore(map[string]*testSpec{"known": {valid: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		key    string
		expErr string
	}{
		"known record":   {key: "known"},
		"unknown record": {key: "missing", expErr: `testSpec "missing" not found`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			id := NewSmartIdentifier[*testSpec](tt.key)
			err := id.Resolve(st)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "resolved", id.Get() != nil, true)
		})
	}
}

func TestSmartIdentifier_ValidateEmpty(t *testing.T) {
	var id SmartIdentifier[*testSpec]
	testutil.AssertErrorContains(t, id.Validate(), "testSpec identifier is required")
}
