package logseq

import (
	"errors"
	"reflect"
	"testing"
)

func TestLoadProperty(t *testing.T) {
	prop, err := LoadProperty("title:: My Page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop.Field != "title" {
		t.Errorf("field = %q, want %q", prop.Field, "title")
	}
	if prop.Value != "My Page" {
		t.Errorf("value = %q, want %q", prop.Value, "My Page")
	}
	if prop.Raw != "title:: My Page" {
		t.Errorf("raw = %q", prop.Raw)
	}
}

func TestLoadProperty_RoundTrip(t *testing.T) {
	prop, err := LoadProperty("alias:: that other page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := LoadProperty(prop.Raw)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != prop {
		t.Errorf("reload = %+v, want %+v", again, prop)
	}
}

func TestLoadProperty_LeadingWhitespaceTrimmedFromField(t *testing.T) {
	prop, err := LoadProperty("  public:: true")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop.Field != "public" {
		t.Errorf("field = %q, want %q", prop.Field, "public")
	}
}

func TestLoadProperty_SplitsOnFirstSeparator(t *testing.T) {
	prop, err := LoadProperty("note:: value with:: separator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop.Field != "note" {
		t.Errorf("field = %q, want %q", prop.Field, "note")
	}
	if prop.Value != "value with:: separator" {
		t.Errorf("value = %q", prop.Value)
	}
}

func TestLoadProperty_MissingSeparator(t *testing.T) {
	_, err := LoadProperty("just some text")
	if !errors.Is(err, ErrPropertyFormat) {
		t.Fatalf("err = %v, want ErrPropertyFormat", err)
	}
}

func TestProperty_IsTrue(t *testing.T) {
	truthy := []string{"true", "1", "yes", "on", "enabled", "True", "YES", "eNaBlEd", "ON"}
	for _, v := range truthy {
		if !(Property{Value: v}).IsTrue() {
			t.Errorf("IsTrue(%q) = false, want true", v)
		}
	}
	falsy := []string{"false", "0", "no", "off", "disabled", "waffles", ""}
	for _, v := range falsy {
		if (Property{Value: v}).IsTrue() {
			t.Errorf("IsTrue(%q) = true, want false", v)
		}
	}
}

func TestProperty_AsList(t *testing.T) {
	cases := []struct {
		value string
		want  []string
	}{
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{"a, b", []string{"a", "b"}},
		{"a,b,c", []string{"a", "b", "c"}},
		// Duplicates and order are preserved: a list, not a set.
		{"a,b,b", []string{"a", "b", "b"}},
	}
	for _, c := range cases {
		got := (Property{Value: c.value}).AsList()
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("AsList(%q) = %v, want %v", c.value, got, c.want)
		}
	}
}
