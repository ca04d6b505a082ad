package gateway

import (
	"strings"
	"testing"
	"time"
)

const testSalt = "super-secret-salt"

func signedFields() map[string]string {
	return map[string]string{
		"transaction_id": "TX-9001",
		"order_id":       "REG123_171234",
		"response_code":  "0",
		"amount":         "1000.00",
		"currency":       "USD",
	}
}

// signFields computes the hash the gateway would attach: values of non-empty
// fields in lexicographic field-name order.
func signFields(fields map[string]string, salt string) string {
	ordered := []string{
		fields["amount"],
		fields["currency"],
		fields["order_id"],
		fields["response_code"],
		fields["transaction_id"],
	}
	return ComputeRequestHash(ordered, salt)
}

func TestVerifyResponseHash_RoundTrip(t *testing.T) {
	t.Parallel()

	fields := signedFields()
	hash := signFields(fields, testSalt)
	fields[HashFieldName] = hash

	if !VerifyResponseHash(fields, testSalt, hash) {
		t.Error("expected round-tripped hash to verify")
	}
}

func TestVerifyResponseHash_TamperedHashRejected(t *testing.T) {
	t.Parallel()

	fields := signedFields()
	hash := signFields(fields, testSalt)

	tampered := "0" + hash[1:]
	if hash[0] == '0' {
		tampered = "1" + hash[1:]
	}

	if VerifyResponseHash(fields, testSalt, tampered) {
		t.Error("expected tampered hash to fail verification")
	}
}

func TestVerifyResponseHash_TamperedFieldRejected(t *testing.T) {
	t.Parallel()

	fields := signedFields()
	hash := signFields(fields, testSalt)

	fields["amount"] = "9999.00"
	if VerifyResponseHash(fields, testSalt, hash) {
		t.Error("expected hash over modified amount to fail verification")
	}
}

func TestVerifyResponseHash_EmptyHashPassesTrivially(t *testing.T) {
	t.Parallel()

	// Documented gateway behavior for unsigned callbacks: verification
	// passes, callers record the lower trust level.
	if !VerifyResponseHash(signedFields(), testSalt, "") {
		t.Error("expected empty received hash to verify trivially")
	}
}

func TestVerifyResponseHash_IgnoresEmptyAndHashFields(t *testing.T) {
	t.Parallel()

	fields := signedFields()
	hash := signFields(fields, testSalt)

	// Empty fields and the hash field itself are excluded from the digest.
	fields["error_desc"] = ""
	fields["payment_id"] = "   "
	fields[HashFieldName] = hash

	if !VerifyResponseHash(fields, testSalt, hash) {
		t.Error("expected empty-valued fields to be excluded from verification")
	}
}

func TestVerifyResponseHash_WrongSaltRejected(t *testing.T) {
	t.Parallel()

	fields := signedFields()
	hash := signFields(fields, testSalt)

	if VerifyResponseHash(fields, "other-salt", hash) {
		t.Error("expected hash computed with different salt to fail")
	}
}

func TestComputeRequestHash_UppercaseHexAndTrimming(t *testing.T) {
	t.Parallel()

	a := ComputeRequestHash([]string{" 1000.00 ", "USD"}, testSalt)
	b := ComputeRequestHash([]string{"1000.00", "USD"}, testSalt)

	if a != b {
		t.Error("expected values to be trimmed before hashing")
	}
	if a != strings.ToUpper(a) {
		t.Error("expected uppercase hex output")
	}
	if len(a) != 128 { // SHA-512 hex
		t.Errorf("expected 128 hex chars, got %d", len(a))
	}
}

func TestIsSuccessful(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    string
		message string
		status  string
		want    bool
	}{
		{"zero code", "0", "", "", true},
		{"message contains success", "1", "Payment Success", "", true},
		{"legacy status", "", "", "SUCCESS", true},
		{"failure code and message", "1", "Transaction Failed", "", false},
		{"everything empty", "", "", "", false},
		// Preserved upstream permissiveness: any message containing the
		// substring counts.
		{"substring match", "7", "not a success", "", true},
	}

	for _, tc := range cases {
		if got := IsSuccessful(tc.code, tc.message, tc.status); got != tc.want {
			t.Errorf("%s: IsSuccessful(%q, %q, %q) = %t, want %t",
				tc.name, tc.code, tc.message, tc.status, got, tc.want)
		}
	}
}

func TestNewOrderID_Truncation(t *testing.T) {
	t.Parallel()

	now := time.Unix(1710000000, 0)

	short := NewOrderID("REG123", now)
	if len(short) > MaxOrderIDLength {
		t.Errorf("order id %q exceeds %d chars", short, MaxOrderIDLength)
	}
	if !strings.HasPrefix(short, "REG123_") {
		t.Errorf("expected registration prefix, got %q", short)
	}

	long := NewOrderID(strings.Repeat("R", 40), now)
	if len(long) != MaxOrderIDLength {
		t.Errorf("expected truncation to %d chars, got %d", MaxOrderIDLength, len(long))
	}
}
