package validate_test

import (
	"testing"

	"bazaar/internal/validate"
)

func TestProductName(t *testing.T) {
	if _, ok := validate.ProductName("  iPhone X  "); !ok {
		t.Fatal("trimmed name should pass")
	}
	if _, ok := validate.ProductName("   "); ok {
		t.Fatal("whitespace-only name should fail")
	}
	if _, ok := validate.ProductName(""); ok {
		t.Fatal("empty name should fail")
	}
}

func TestProductID(t *testing.T) {
	if id, ok := validate.ProductID("42"); !ok || id != 42 {
		t.Fatalf("want 42, got %d ok=%v", id, ok)
	}
	for _, bad := range []string{"0", "-1", "abc", "", "1.5"} {
		if _, ok := validate.ProductID(bad); ok {
			t.Fatalf("%q should fail", bad)
		}
	}
}

func TestAddress(t *testing.T) {
	good := []string{
		"0x5e11e6a8c9b2457d3f01a4e8b6c2d9e0f1a2b3c4",
		"0xCAFE",
		"dev-buyer",
	}
	for _, s := range good {
		if _, ok := validate.Address(s); !ok {
			t.Fatalf("%q should pass", s)
		}
	}
	bad := []string{"", "0x", "has space", "0xzz11", "a"}
	for _, s := range bad {
		if _, ok := validate.Address(s); ok {
			t.Fatalf("%q should fail", s)
		}
	}
}

func TestSeqAndLimit(t *testing.T) {
	if validate.Seq("17") != 17 || validate.Seq("-3") != 0 || validate.Seq("junk") != 0 {
		t.Fatal("seq parsing")
	}
	if validate.Limit("", 100, 500) != 100 {
		t.Fatal("default limit")
	}
	if validate.Limit("9999", 100, 500) != 500 {
		t.Fatal("limit clamp")
	}
	if validate.Limit("25", 100, 500) != 25 {
		t.Fatal("explicit limit")
	}
}
