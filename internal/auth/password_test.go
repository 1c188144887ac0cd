package auth

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "s3cret"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password must not verify")
	}
}

func TestValidUsername(t *testing.T) {
	for _, name := range []string{"alice", "Alice123", "bob_smith", "charlie-01", "A_B-C_123"} {
		if !ValidUsername(name) {
			t.Fatalf("expected valid: %q", name)
		}
	}
	for _, name := range []string{"", "with space", "émile", "semi;colon", "dot.name"} {
		if ValidUsername(name) {
			t.Fatalf("expected invalid: %q", name)
		}
	}
}
