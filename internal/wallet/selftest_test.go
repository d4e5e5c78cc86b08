package wallet

import (
	"errors"
	"testing"
)

func TestSelfTest(t *testing.T) {
	var names []string
	err := SelfTest(func(name string, err error) {
		names = append(names, name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
	})
	if err != nil {
		t.Fatalf("SelfTest() error: %v", err)
	}
	if len(names) != len(KnownVectors)+1 {
		t.Errorf("reported %d checks, want %d", len(names), len(KnownVectors)+1)
	}
}

func TestVector_CheckDetectsMismatch(t *testing.T) {
	v := KnownVectors[0]
	v.MasterKey = KnownVectors[1].MasterKey
	if err := v.Check(); !errors.Is(err, ErrSelfTest) {
		t.Fatalf("Check() error = %v, want ErrSelfTest", err)
	}

	v = KnownVectors[0]
	v.Rounds = 1
	if err := v.Check(); !errors.Is(err, ErrSelfTest) {
		t.Fatalf("Check() with wrong rounds error = %v, want ErrSelfTest", err)
	}

	v = KnownVectors[0]
	v.RootXVK = "root_xvk1nope"
	if err := v.Check(); !errors.Is(err, ErrSelfTest) {
		t.Fatalf("Check() with wrong xvk error = %v, want ErrSelfTest", err)
	}
}

func TestVector_CheckBadLength(t *testing.T) {
	v := Vector{Name: "short", Mnemonic: "abandon about"}
	if err := v.Check(); !errors.Is(err, ErrInvalidMnemonicLength) {
		t.Fatalf("Check() error = %v, want ErrInvalidMnemonicLength", err)
	}
}

func TestSelfTest_NilReport(t *testing.T) {
	if err := SelfTest(nil); err != nil {
		t.Fatalf("SelfTest(nil) error: %v", err)
	}
}
