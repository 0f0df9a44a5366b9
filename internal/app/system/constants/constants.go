// internal/app/system/constants/constants.go
//
// Package constants holds small lookup tables used across features.
// Defaults ship in code; Configure lets deployments override them from
// settings without redeploying.
package constants

import "sync"

// Config carries the overridable tables.
type Config struct {
	StateNames map[string]string
	BoolFields []string
}

var (
	mu sync.RWMutex

	stateNames = map[string]string{
		"AP": "Andhra Pradesh",
		"AR": "Arunachal Pradesh",
		"AS": "Assam",
		"BR": "Bihar",
		"CG": "Chhattisgarh",
		"GA": "Goa",
		"GJ": "Gujarat",
		"HR": "Haryana",
		"HP": "Himachal Pradesh",
		"JH": "Jharkhand",
		"KA": "Karnataka",
		"KL": "Kerala",
		"MP": "Madhya Pradesh",
		"MH": "Maharashtra",
		"MN": "Manipur",
		"ML": "Meghalaya",
		"MZ": "Mizoram",
		"NL": "Nagaland",
		"OD": "Odisha",
		"PB": "Punjab",
		"RJ": "Rajasthan",
		"SK": "Sikkim",
		"TN": "Tamil Nadu",
		"TS": "Telangana",
		"TR": "Tripura",
		"UP": "Uttar Pradesh",
		"UK": "Uttarakhand",
		"WB": "West Bengal",
		"AN": "Andaman and Nicobar Islands",
		"CH": "Chandigarh",
		"DN": "Dadra and Nagar Haveli and Daman and Diu",
		"DL": "Delhi",
		"JK": "Jammu and Kashmir",
		"LA": "Ladakh",
		"LD": "Lakshadweep",
		"PY": "Puducherry",
	}

	boolFields = map[string]struct{}{
		"is_verify":         {},
		"is_email_verify":   {},
		"is_mobile_verify":  {},
		"is_excluded":       {},
		"declaration":       {},
		"payment_initiated": {},
		"is_enrolled":       {},
		"is_rejected":       {},
	}
)

// Configure replaces the default tables with deployment-supplied ones.
// Empty config fields leave the defaults in place.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if len(cfg.StateNames) > 0 {
		stateNames = cfg.StateNames
	}
	if len(cfg.BoolFields) > 0 {
		boolFields = map[string]struct{}{}
		for _, f := range cfg.BoolFields {
			boolFields[f] = struct{}{}
		}
	}
}

// StateName resolves a state code to its display name.
func StateName(code string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	name, ok := stateNames[code]
	return name, ok
}

// IsBoolField reports whether a field name is in the boolean allowlist
// used when coercing loosely typed filter values.
func IsBoolField(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := boolFields[name]
	return ok
}
