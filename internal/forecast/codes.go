package forecast

import "fmt"

// ///////////////////////////////////////////////
// Weather-Code Mapping
// ///////////////////////////////////////////////

// CodeMapping maps IMS weather codes to icon asset identifiers. It is total:
// any unmapped code resolves to the fallback icon, so a render can never
// fail on an unknown code.
type CodeMapping struct {
	icons    map[int]string
	fallback string
}

// NewCodeMapping builds a mapping from code→icon-id entries and a fallback
// icon id. The fallback must be non-empty; the mapping is unusable without
// one.
func NewCodeMapping(icons map[int]string, fallback string) (CodeMapping, error) {
	if fallback == "" {
		return CodeMapping{}, fmt.Errorf("weather code mapping requires a fallback icon id")
	}
	m := make(map[int]string, len(icons))
	for code, id := range icons {
		if id == "" {
			return CodeMapping{}, fmt.Errorf("weather code %d maps to an empty icon id", code)
		}
		m[code] = id
	}
	return CodeMapping{icons: m, fallback: fallback}, nil
}

// Icon resolves a weather code to an icon asset id, falling back to the
// designated default for unmapped codes.
func (m CodeMapping) Icon(code int) string {
	if id, ok := m.icons[code]; ok {
		return id
	}
	return m.fallback
}

// Fallback returns the designated fallback icon id.
func (m CodeMapping) Fallback() string { return m.fallback }

// Codes returns the explicitly mapped weather codes, in unspecified order.
func (m CodeMapping) Codes() []int {
	codes := make([]int, 0, len(m.icons))
	for c := range m.icons {
		codes = append(codes, c)
	}
	return codes
}
