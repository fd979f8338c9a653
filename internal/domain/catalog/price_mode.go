package catalog

// PriceMode is the measurement semantics of a product: sold by discrete
// unit, by weight (kilograms) or by volume (liters). The canonical quantity
// of a cart line is always expressed in the mode's base unit.
type PriceMode string

const (
	PriceModeUnit   PriceMode = "unit"
	PriceModeWeight PriceMode = "weight"
	PriceModeVolume PriceMode = "volume"
)

// legacyPriceModeCodes maps the product codes used by older KontrollaPro
// catalogs to their canonical modes.
var legacyPriceModeCodes = map[string]PriceMode{
	"unidade": PriceModeUnit,
	"kg":      PriceModeWeight,
	"litros":  PriceModeVolume,
}

// IsValid checks if the mode is a valid PriceMode
func (m PriceMode) IsValid() bool {
	switch m {
	case PriceModeUnit, PriceModeWeight, PriceModeVolume:
		return true
	}
	return false
}

// String returns the string representation of PriceMode
func (m PriceMode) String() string {
	return string(m)
}

// RequiresQuantityEntry returns true for modes whose quantity is captured
// through the weight/volume entry flow instead of a per-scan increment
func (m PriceMode) RequiresQuantityEntry() bool {
	return m == PriceModeWeight || m == PriceModeVolume
}

// BaseUnit returns the unit code canonical quantities are expressed in
func (m PriceMode) BaseUnit() string {
	switch m {
	case PriceModeWeight:
		return "kg"
	case PriceModeVolume:
		return "L"
	default:
		return "un"
	}
}

// ParsePriceMode parses a mode string, accepting both canonical values
// and the legacy catalog codes (unidade, kg, litros)
func ParsePriceMode(s string) (PriceMode, bool) {
	mode := PriceMode(s)
	if mode.IsValid() {
		return mode, true
	}
	if legacy, ok := legacyPriceModeCodes[s]; ok {
		return legacy, true
	}
	return "", false
}
