package cryptox

import (
	"bytes"
	"testing"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := DeriveKey("test-secret")
	plaintext := []byte(`{"user_id":42}`)

	ciphertext, nonce, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	if bytes.Equal(ciphertext, plaintext) {
		t.Fatal("ciphertext equals plaintext")
	}

	got, err := Decrypt(ciphertext, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Decrypt = %q; want %q", got, plaintext)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	plaintext := []byte("payload")

	ciphertext, nonce, err := Encrypt(plaintext, DeriveKey("secret-a"))
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	if _, err := Decrypt(ciphertext, nonce, DeriveKey("secret-b")); err == nil {
		t.Error("Decrypt with wrong key did not return error")
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	key := DeriveKey("test-secret")

	ciphertext, nonce, err := Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	ciphertext[0] ^= 0xff
	if _, err := Decrypt(ciphertext, nonce, key); err == nil {
		t.Error("Decrypt of tampered ciphertext did not return error")
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey("secret")
	b := DeriveKey("secret")
	c := DeriveKey("other")

	if !bytes.Equal(a, b) {
		t.Error("DeriveKey is not deterministic for equal secrets")
	}
	if bytes.Equal(a, c) {
		t.Error("DeriveKey collides for different secrets")
	}
	if len(a) != 32 {
		t.Errorf("DeriveKey length = %d; want 32", len(a))
	}
}
