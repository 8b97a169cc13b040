package program

import (
	"crypto/ed25519"
	"strings"

	"github.com/milton-protocol/milton-go/pkg/bignum"
	"github.com/milton-protocol/milton-go/pkg/solana"
)

// ValidateParams applies heuristic checks to named operation parameters
// before any encoding happens. Every parameter must be present and non-empty;
// parameters whose name suggests an address must be a valid base58 key, and
// amounts must not be negative.
//
// The first failing parameter produces an InvalidInput error naming it under
// Data["param"].
func ValidateParams(params map[string]interface{}) error {
	for name, value := range params {
		if value == nil {
			return Errorf(InvalidInput, "missing parameter %q", name).WithData("param", name)
		}

		switch v := value.(type) {
		case string:
			if v == "" {
				return Errorf(InvalidInput, "empty parameter %q", name).WithData("param", name)
			}
			if isAddressParam(name) && !solana.IsValidPublicKey(v) {
				return Errorf(InvalidInput, "parameter %q is not a valid address", name).WithData("param", name)
			}
		case []byte:
			if len(v) == 0 {
				return Errorf(InvalidInput, "empty parameter %q", name).WithData("param", name)
			}
		case ed25519.PublicKey:
			if len(v) != ed25519.PublicKeySize {
				return Errorf(InvalidInput, "parameter %q is not a valid address", name).WithData("param", name)
			}
		case bignum.Amount:
			if v.IsNeg() {
				return Errorf(InvalidInput, "parameter %q must not be negative", name).WithData("param", name)
			}
		case int:
			if v < 0 {
				return Errorf(InvalidInput, "parameter %q must not be negative", name).WithData("param", name)
			}
		case int64:
			if v < 0 {
				return Errorf(InvalidInput, "parameter %q must not be negative", name).WithData("param", name)
			}
		case float64:
			if v < 0 {
				return Errorf(InvalidInput, "parameter %q must not be negative", name).WithData("param", name)
			}
		}
	}

	return nil
}

func isAddressParam(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "address") || strings.HasSuffix(lower, "account") || strings.HasSuffix(lower, "mint")
}
