package signature

import (
	"testing"
)

func TestVerifyRejectsBadInputs(t *testing.T) {
	sigHex := "0x8ee4ce50165f23b739ec55c2beeafcd273685819c32470df26b0641d15593d3b08b8aef7c391f01e7c2e34c2ee12b80df0c4b615cc0d0966be0dc81192bbc286"
	ss58Address := "5Eq1FDc9oz1tTm4MqGLdH4ajgz9eMgQ5To812axojN121DiQ"

	t.Run("missing 0x prefix", func(t *testing.T) {
		ok, err := Verify("test message", sigHex[2:], ss58Address)
		if err == nil {
			t.Error("Expected error for signature without 0x prefix")
		}
		if ok {
			t.Error("Expected verification to fail")
		}
	})

	t.Run("short signature", func(t *testing.T) {
		ok, err := Verify("test message", sigHex[:66], ss58Address)
		if err == nil {
			t.Error("Expected error for short signature")
		}
		if ok {
			t.Error("Expected verification to fail")
		}
	})

	t.Run("invalid SS58 address", func(t *testing.T) {
		ok, err := Verify("test message", sigHex, "invalid-address")
		if err == nil {
			t.Error("Expected error for invalid SS58 address")
		}
		if ok {
			t.Error("Expected verification to fail")
		}
	})
}
