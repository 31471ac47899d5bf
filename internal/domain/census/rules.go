package census

import (
	"fmt"
	"strings"

	"census-app-go/internal/domain/validation"
)

const (
	FieldNationalID   = "national_id"
	FieldName         = "name"
	FieldAddress      = "address"
	FieldPhone        = "phone"
	FieldZoneID       = "zone_id"
	FieldSectorID     = "sector_id"
	FieldCensusTypeID = "census_type_id"
	FieldWasteType    = "waste_type"
	FieldCode         = "code"
)

type ruleKind int

const (
	ruleText ruleKind = iota
	ruleOptionalText
	rulePositiveInt
	ruleClock
	ruleDays
	ruleReference
)

type Rule struct {
	Field string
	Kind  ruleKind
	Max   int
}

var baseRules = []Rule{
	{Field: FieldNationalID, Kind: ruleText, Max: 8},
	{Field: FieldName, Kind: ruleText, Max: 100},
	{Field: FieldAddress, Kind: ruleText, Max: 255},
	{Field: FieldPhone, Kind: ruleOptionalText, Max: 15},
	{Field: FieldZoneID, Kind: ruleReference},
	{Field: FieldSectorID, Kind: ruleReference},
	{Field: FieldCensusTypeID, Kind: ruleReference},
	{Field: FieldWasteType, Kind: ruleText, Max: 100},
}

var extraRules = map[string]Rule{
	FieldInhabitantCount:   {Field: FieldInhabitantCount, Kind: rulePositiveInt},
	FieldRouteCode:         {Field: FieldRouteCode, Kind: ruleText, Max: 50},
	FieldPlate:             {Field: FieldPlate, Kind: ruleText, Max: 20},
	FieldStartTime:         {Field: FieldStartTime, Kind: ruleClock},
	FieldEndTime:           {Field: FieldEndTime, Kind: ruleClock},
	FieldCollectionDays:    {Field: FieldCollectionDays, Kind: ruleDays},
	FieldEstablishmentName: {Field: FieldEstablishmentName, Kind: ruleText, Max: 255},
	FieldEstablishmentType: {Field: FieldEstablishmentType, Kind: ruleText, Max: 100},
	FieldMarketRole:        {Field: FieldMarketRole, Kind: ruleText, Max: 100},
	FieldMarketStallCount:  {Field: FieldMarketStallCount, Kind: ruleText, Max: 100},
	FieldInstitutionName:   {Field: FieldInstitutionName, Kind: ruleText, Max: 255},
	FieldInstitutionType:   {Field: FieldInstitutionType, Kind: ruleText, Max: 100},
}

// typeDependent lists the attributes that only exist for some census types.
var typeDependent = []string{
	FieldInhabitantCount,
	FieldRouteCode,
	FieldPlate,
	FieldEstablishmentName,
	FieldEstablishmentType,
	FieldMarketRole,
	FieldMarketStallCount,
	FieldInstitutionName,
	FieldInstitutionType,
}

type RuleSet struct {
	Base  []Rule
	Extra []Rule
}

// RulesFor returns base rules plus the extra required fields of the type; unknown ids get base rules only.
func RulesFor(typeID int64) RuleSet {
	set := RuleSet{Base: baseRules}
	for _, field := range typeConfigs[typeID].extra {
		set.Extra = append(set.Extra, extraRules[field])
	}
	return set
}

func (s RuleSet) Requires(field string) bool {
	for _, rule := range s.Extra {
		if rule.Field == field {
			return true
		}
	}
	return false
}

func (s RuleSet) RequiredFields() []string {
	fields := make([]string, 0, len(s.Base)+len(s.Extra))
	for _, rule := range s.Base {
		if rule.Kind != ruleOptionalText {
			fields = append(fields, rule.Field)
		}
	}
	for _, rule := range s.Extra {
		fields = append(fields, rule.Field)
	}
	return fields
}

// apply validates the input's own fields in place. Reference existence and uniqueness are checked by the service.
func (s RuleSet) apply(input *Input) validation.Errors {
	errs := validation.Errors{}

	rules := make([]Rule, 0, len(s.Base)+len(s.Extra))
	rules = append(rules, s.Base...)
	rules = append(rules, s.Extra...)

	for _, rule := range rules {
		switch rule.Kind {
		case ruleText:
			errs.RequiredMax(rule.Field, input.text(rule.Field), rule.Max)
		case ruleOptionalText:
			value := input.text(rule.Field)
			*value = strings.TrimSpace(*value)
			errs.MaxLength(rule.Field, *value, rule.Max)
		case rulePositiveInt:
			if input.InhabitantCount == nil {
				errs.Add(rule.Field, "is required")
			} else if *input.InhabitantCount < 1 {
				errs.Add(rule.Field, "must be at least 1")
			}
		}
	}

	s.applySchedule(input, errs)
	input.clearInapplicable(s)
	return errs
}

// applySchedule checks the collection window. Types without schedule fields may still carry one, validated only when present.
func (s RuleSet) applySchedule(input *Input, errs validation.Errors) {
	input.CollectionStartTime = strings.TrimSpace(input.CollectionStartTime)
	input.CollectionEndTime = strings.TrimSpace(input.CollectionEndTime)

	required := s.Requires(FieldStartTime)
	hasWindow := input.CollectionStartTime != "" || input.CollectionEndTime != ""

	if required || hasWindow {
		if required {
			errs.Required(FieldStartTime, input.CollectionStartTime)
			errs.Required(FieldEndTime, input.CollectionEndTime)
		}
		if !errs.Has(FieldStartTime) && !errs.Has(FieldEndTime) {
			errs.ClockRange(FieldStartTime, &input.CollectionStartTime, FieldEndTime, &input.CollectionEndTime)
		}
	}

	if s.Requires(FieldCollectionDays) || len(input.CollectionDays) > 0 {
		input.CollectionDays = errs.Weekdays(FieldCollectionDays, input.CollectionDays)
	}
}

func (i *Input) text(field string) *string {
	switch field {
	case FieldNationalID:
		return &i.NationalID
	case FieldName:
		return &i.Name
	case FieldAddress:
		return &i.Address
	case FieldPhone:
		return &i.Phone
	case FieldWasteType:
		return &i.WasteType
	case FieldRouteCode:
		return &i.RouteCode
	case FieldPlate:
		return &i.Plate
	case FieldEstablishmentName:
		return &i.EstablishmentName
	case FieldEstablishmentType:
		return &i.EstablishmentType
	case FieldMarketRole:
		return &i.MarketRole
	case FieldMarketStallCount:
		return &i.MarketStallCount
	case FieldInstitutionName:
		return &i.InstitutionName
	case FieldInstitutionType:
		return &i.InstitutionType
	}
	panic(fmt.Sprintf("census: %q is not a text attribute", field))
}

func (i *Input) clearInapplicable(rules RuleSet) {
	for _, field := range typeDependent {
		if rules.Requires(field) {
			continue
		}
		if field == FieldInhabitantCount {
			i.InhabitantCount = nil
			continue
		}
		*i.text(field) = ""
	}
}
