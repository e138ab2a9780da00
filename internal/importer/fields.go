package importer

import (
	"strconv"
	"strings"
	"time"
)

// Field is a canonical logical field name. Spreadsheet headers are folded
// onto this fixed set by the mapper; everything downstream (validators,
// resolver, executor) only ever sees Fields.
type Field string

const (
	FieldSubRegion      Field = "subRegion"
	FieldCountry        Field = "country"
	FieldBusinessUnit   Field = "businessUnit"
	FieldCategory       Field = "category"
	FieldRange          Field = "range"
	FieldCampaign       Field = "campaign"
	FieldMediaType      Field = "mediaType"
	FieldMediaSubtype   Field = "mediaSubtype"
	FieldYear           Field = "year"
	FieldStartDate      Field = "startDate"
	FieldEndDate        Field = "endDate"
	FieldWeeksOnAir     Field = "weeksOnAir"
	FieldWeeksOffAir    Field = "weeksOffAir"
	FieldTotalBudget    Field = "totalBudget"
	FieldQ1Budget       Field = "q1Budget"
	FieldQ2Budget       Field = "q2Budget"
	FieldQ3Budget       Field = "q3Budget"
	FieldQ4Budget       Field = "q4Budget"
	FieldTRPs           Field = "trps"
	FieldReach1Plus     Field = "reach1Plus"
	FieldReach2Plus     Field = "reach2Plus"
	FieldReach3Plus     Field = "reach3Plus"
	FieldSaturation     Field = "saturationPoint"
	FieldTargetAudience Field = "targetAudience"
	FieldGender         Field = "gender"
	FieldMinAge         Field = "minAge"
	FieldMaxAge         Field = "maxAge"
)

// Kind is the coercion rule of a field, decided once here. Validators never
// re-parse raw strings.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
	KindBoolean
	KindDate
)

var fieldKinds = map[Field]Kind{
	FieldSubRegion:      KindText,
	FieldCountry:        KindText,
	FieldBusinessUnit:   KindText,
	FieldCategory:       KindText,
	FieldRange:          KindText,
	FieldCampaign:       KindText,
	FieldMediaType:      KindText,
	FieldMediaSubtype:   KindText,
	FieldYear:           KindInteger,
	FieldStartDate:      KindDate,
	FieldEndDate:        KindDate,
	FieldWeeksOnAir:     KindInteger,
	FieldWeeksOffAir:    KindInteger,
	FieldTotalBudget:    KindDecimal,
	FieldQ1Budget:       KindDecimal,
	FieldQ2Budget:       KindDecimal,
	FieldQ3Budget:       KindDecimal,
	FieldQ4Budget:       KindDecimal,
	FieldTRPs:           KindDecimal,
	FieldReach1Plus:     KindDecimal,
	FieldReach2Plus:     KindDecimal,
	FieldReach3Plus:     KindDecimal,
	FieldSaturation:     KindDecimal,
	FieldTargetAudience: KindText,
	FieldGender:         KindText,
	FieldMinAge:         KindInteger,
	FieldMaxAge:         KindInteger,
}

// fieldSynonyms maps each canonical field to the header spellings seen in
// the wild. Lookup goes through normalizeHeader, so case, punctuation and
// spacing variants all land on the same entry.
var fieldSynonyms = map[Field][]string{
	FieldSubRegion:      {"sub region", "subregion", "sub-region", "region"},
	FieldCountry:        {"country", "market", "country name"},
	FieldBusinessUnit:   {"business unit", "bu", "businessunit"},
	FieldCategory:       {"category", "product category"},
	FieldRange:          {"range", "product range", "brand range"},
	FieldCampaign:       {"campaign", "campaign name"},
	FieldMediaType:      {"media", "media type", "mediatype"},
	FieldMediaSubtype:   {"media subtype", "media sub type", "sub media", "media channel"},
	FieldYear:           {"year", "plan year", "fy"},
	FieldStartDate:      {"start date", "initial date", "from"},
	FieldEndDate:        {"end date", "final date", "to"},
	FieldWeeksOnAir:     {"weeks on air", "woa", "on air weeks"},
	FieldWeeksOffAir:    {"weeks off air", "woff", "off air weeks"},
	FieldTotalBudget:    {"total budget", "budget", "planned budget", "total budget lc"},
	FieldQ1Budget:       {"q1 budget", "q1", "budget q1"},
	FieldQ2Budget:       {"q2 budget", "q2", "budget q2"},
	FieldQ3Budget:       {"q3 budget", "q3", "budget q3"},
	FieldQ4Budget:       {"q4 budget", "q4", "budget q4"},
	FieldTRPs:           {"trps", "trp", "total trps"},
	FieldReach1Plus:     {"reach 1+", "reach 1 plus", "reach1plus", "combined reach 1+"},
	FieldReach2Plus:     {"reach 2+", "reach 2 plus", "reach2plus"},
	FieldReach3Plus:     {"reach 3+", "reach 3 plus", "reach3plus"},
	FieldSaturation:     {"saturation point", "saturation", "sat point"},
	FieldTargetAudience: {"target audience", "audience", "ta"},
	FieldGender:         {"gender", "sex"},
	FieldMinAge:         {"min age", "minimum age", "age min"},
	FieldMaxAge:         {"max age", "maximum age", "age max"},
}

// Value is a typed cell. Exactly one of the typed slots is set, according
// to Kind; an absent or unparseable-numeric cell is simply not present in
// the MappedRow at all.
type Value struct {
	Kind Kind
	Raw  string
	Text string
	Int  *int64
	Dec  *float64
	Bool *bool
	Date *time.Time
}

// KeyString renders a value in a canonical form usable inside a composite
// duplicate key.
func (v Value) KeyString() string {
	switch v.Kind {
	case KindInteger:
		if v.Int != nil {
			return strconv.FormatInt(*v.Int, 10)
		}
	case KindDecimal:
		if v.Dec != nil {
			return strconv.FormatFloat(*v.Dec, 'f', -1, 64)
		}
	case KindBoolean:
		if v.Bool != nil {
			return strconv.FormatBool(*v.Bool)
		}
	case KindDate:
		if v.Date != nil {
			return v.Date.Format("2006-01-02")
		}
	default:
		return strings.ToLower(strings.TrimSpace(v.Text))
	}
	return ""
}

// MappedRow is one spreadsheet row after canonical mapping. Fields the file
// did not provide are absent, not defaulted, so validation can tell
// "missing" apart from "empty".
type MappedRow map[Field]Value

func (m MappedRow) Text(f Field) string {
	if v, ok := m[f]; ok {
		return strings.TrimSpace(v.Text)
	}
	return ""
}

func (m MappedRow) Int(f Field) *int64 {
	if v, ok := m[f]; ok {
		return v.Int
	}
	return nil
}

func (m MappedRow) Dec(f Field) *float64 {
	if v, ok := m[f]; ok {
		return v.Dec
	}
	return nil
}

func (m MappedRow) Date(f Field) *time.Time {
	if v, ok := m[f]; ok {
		return v.Date
	}
	return nil
}
