package veil

import (
	"net/url"
	"testing"
)

func TestRevealQueryGreedy_DecryptsEveryValue(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{
		"lastName":  {sealSegment(t, p, "Doe")},
		"firstName": {"John"},
	}

	out := RevealQueryGreedy(p, in)

	if got := out.Get("lastName"); got != "Doe" {
		t.Errorf("lastName = %q, want Doe", got)
	}
	if got := out.Get("firstName"); got != "John" {
		t.Errorf("firstName = %q, want John", got)
	}
}

func TestRevealQueryGreedy_Totality(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{
		"a": {"1", "2"},
		"b": {sealSegment(t, p, "x")},
		"c": {""},
	}

	out := RevealQueryGreedy(p, in)

	if len(out) != len(in) {
		t.Fatalf("key count changed: in %d, out %d", len(in), len(out))
	}
	for key, values := range in {
		if len(out[key]) != len(values) {
			t.Errorf("value count for %q changed: in %d, out %d", key, len(values), len(out[key]))
		}
	}
}

func TestRevealQueryGreedy_MultiValuePositional(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{
		"id": {"plain", sealSegment(t, p, "7"), "also-plain"},
	}

	out := RevealQueryGreedy(p, in)

	want := []string{"plain", "7", "also-plain"}
	got := out["id"]
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRevealQueryGreedy_DoesNotMutateInput(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)
	token := sealSegment(t, p, "Doe")

	in := url.Values{"lastName": {token}}
	RevealQueryGreedy(p, in)

	if in.Get("lastName") != token {
		t.Error("input map was mutated")
	}
}

func TestRevealQuerySchema_Success(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{
		"lastName":  {sealSegment(t, p, "Doe")},
		"firstName": {"John"},
	}
	policies := []FieldPolicy{{Name: "lastName"}}

	out, failed := RevealQuerySchema(p, in, policies, false)

	if got := out.Get("lastName"); got != "Doe" {
		t.Errorf("lastName = %q, want Doe", got)
	}
	if got := out.Get("firstName"); got != "John" {
		t.Errorf("firstName = %q, want John", got)
	}
	if len(failed) != 0 {
		t.Errorf("unexpected failed keys: %v", failed)
	}
}

func TestRevealQuerySchema_FailureKeepsOriginalAndReports(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{"lastName": {"plaintext-garbage"}}
	policies := []FieldPolicy{{Name: "lastName"}}

	out, failed := RevealQuerySchema(p, in, policies, false)

	if got := out.Get("lastName"); got != "plaintext-garbage" {
		t.Errorf("lastName = %q, want plaintext-garbage", got)
	}
	if len(failed) != 1 || failed[0] != "lastName" {
		t.Errorf("failed = %v, want [lastName]", failed)
	}
}

func TestRevealQuerySchema_WarningClassification(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{
		"reported": {"garbage-one"},
		"ignored":  {"garbage-two"},
	}
	policies := []FieldPolicy{
		{Name: "reported"},
		{Name: "ignored", IgnoreWarning: true},
	}

	_, failed := RevealQuerySchema(p, in, policies, false)

	if len(failed) != 1 || failed[0] != "reported" {
		t.Errorf("failed = %v, want [reported]", failed)
	}
}

func TestRevealQuerySchema_GlobalSuppression(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{"lastName": {"garbage"}}
	policies := []FieldPolicy{{Name: "lastName"}}

	_, failed := RevealQuerySchema(p, in, policies, true)

	if len(failed) != 0 {
		t.Errorf("failed = %v, want none with global suppression on", failed)
	}
}

func TestRevealQuerySchema_EmptyValueSkipped(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{"lastName": {""}}
	policies := []FieldPolicy{{Name: "lastName"}}

	out, failed := RevealQuerySchema(p, in, policies, false)

	if got := out.Get("lastName"); got != "" {
		t.Errorf("lastName = %q, want empty", got)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v, want none for empty value", failed)
	}
}

func TestRevealQuerySchema_UnmatchedKeysPassThrough(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	// Token under the right purpose, but no policy covers the key: the
	// value must survive encrypted.
	token := sealSegment(t, p, "hidden")
	in := url.Values{"unrelated": {token}}

	out, failed := RevealQuerySchema(p, in, nil, false)

	if got := out.Get("unrelated"); got != token {
		t.Errorf("unrelated = %q, want the original token", got)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v, want none", failed)
	}
}

func TestRevealQuerySchema_PolicyForAbsentKey(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{"present": {"value"}}
	policies := []FieldPolicy{{Name: "absent"}}

	out, failed := RevealQuerySchema(p, in, policies, false)

	if len(out) != 1 {
		t.Errorf("output gained or lost keys: %v", out)
	}
	if len(failed) != 0 {
		t.Errorf("failed = %v, want none for absent key", failed)
	}
}

func TestRevealQuerySchema_FirstValueOnly(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	first := sealSegment(t, p, "one")
	second := sealSegment(t, p, "two")
	in := url.Values{"id": {first, second}}
	policies := []FieldPolicy{{Name: "id"}}

	out, _ := RevealQuerySchema(p, in, policies, false)

	values := out["id"]
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
	if values[0] != "one" {
		t.Errorf("first value = %q, want one", values[0])
	}
	if values[1] != second {
		t.Errorf("second value = %q, want the original token", values[1])
	}
}

func TestRevealQuerySchema_DuplicatePoliciesReportOnce(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)

	in := url.Values{"id": {"garbage"}}
	policies := []FieldPolicy{{Name: "id"}, {Name: "id"}}

	_, failed := RevealQuerySchema(p, in, policies, false)

	if len(failed) != 1 {
		t.Errorf("failed = %v, want the key reported once", failed)
	}
}

func TestRevealQuerySchema_DoesNotMutateInput(t *testing.T) {
	p := testProtector(t, DefaultQueryPurpose)
	token := sealSegment(t, p, "Doe")

	in := url.Values{"lastName": {token}}
	RevealQuerySchema(p, in, []FieldPolicy{{Name: "lastName"}}, false)

	if in.Get("lastName") != token {
		t.Error("input map was mutated")
	}
}
