package budget

import "testing"

func TestNew(t *testing.T) {
	b := New(1000000, 615800, false, 1700000000000)
	if b.TokensLimit() != 1000000 {
		t.Errorf("TokensLimit() = %d", b.TokensLimit())
	}
	if b.TokensRemaining() != 615800 {
		t.Errorf("TokensRemaining() = %d", b.TokensRemaining())
	}
	if b.IsExhausted() || b.Unlimited() {
		t.Errorf("IsExhausted() = %v, Unlimited() = %v", b.IsExhausted(), b.Unlimited())
	}
	if b.ResetsAt() != 1700000000000 {
		t.Errorf("ResetsAt() = %d", b.ResetsAt())
	}
}

func TestUnlimited(t *testing.T) {
	if b := New(0, -1, false, 0); !b.Unlimited() {
		t.Error("Unlimited() = false for zero limit")
	}
}
