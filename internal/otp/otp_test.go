package otp

import (
	"testing"

	"phoneauth/internal/domain"
)

func TestNumericGeneratorProducesFixedWidthDigits(t *testing.T) {
	gen, err := NewNumericGenerator(6)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	format := NewFormatValidator(6)
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !format.Valid(code) {
			t.Fatalf("generated code %q is not six digits", code)
		}
		seen[code] = struct{}{}
	}
	// 500 draws from a million values collide rarely; a counter or a
	// clock-seeded source would collapse this set.
	if len(seen) < 450 {
		t.Fatalf("expected mostly distinct codes, got %d distinct of 500", len(seen))
	}
}

func TestNumericGeneratorRejectsBadLength(t *testing.T) {
	for _, n := range []int{0, 3, 11} {
		if _, err := NewNumericGenerator(n); err == nil {
			t.Fatalf("expected error for length %d", n)
		}
	}
}

func TestFormatValidator(t *testing.T) {
	v := NewFormatValidator(6)
	for code, want := range map[string]bool{
		"482913":  true,
		"000000":  true,
		"48291":   false,
		"4829130": false,
		"48291a":  false,
		"":        false,
	} {
		if got := v.Valid(code); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", code, got, want)
		}
	}
	if (FormatValidator{}).Valid("123456") {
		t.Fatalf("zero validator must reject everything")
	}
}

func TestDigesterIsKeyedAndBound(t *testing.T) {
	a, generated, err := NewDigester("pepper-a")
	if err != nil || generated {
		t.Fatalf("new digester: generated=%v err=%v", generated, err)
	}
	b, _, _ := NewDigester("pepper-b")

	d1, _ := a.Digest("13812345678", domain.PurposeRegister, "482913")
	d2, _ := a.Digest("13812345678", domain.PurposeRegister, "482913")
	if d1 != d2 {
		t.Fatalf("expected deterministic digest")
	}
	if d1 == "482913" || len(d1) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %q", d1)
	}
	if other, _ := b.Digest("13812345678", domain.PurposeRegister, "482913"); other == d1 {
		t.Fatalf("expected different pepper to change digest")
	}
	if other, _ := a.Digest("13812345678", domain.PurposeLogin, "482913"); other == d1 {
		t.Fatalf("expected purpose to be bound into digest")
	}
	if other, _ := a.Digest("13912345678", domain.PurposeRegister, "482913"); other == d1 {
		t.Fatalf("expected phone to be bound into digest")
	}
}

func TestDigesterGeneratesKeyWhenPepperEmpty(t *testing.T) {
	d, generated, err := NewDigester("")
	if err != nil {
		t.Fatalf("new digester: %v", err)
	}
	if !generated {
		t.Fatalf("expected generated key to be reported")
	}
	if _, err := d.Digest("13812345678", domain.PurposeLogin, "123456"); err != nil {
		t.Fatalf("digest: %v", err)
	}
}
