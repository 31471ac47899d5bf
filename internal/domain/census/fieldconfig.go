package census

import "census-app-go/internal/domain/reference"

const (
	FieldInhabitantCount   = "inhabitant_count"
	FieldRouteCode         = "route_code"
	FieldPlate             = "plate"
	FieldStartTime         = "collection_start_time"
	FieldEndTime           = "collection_end_time"
	FieldCollectionDays    = "collection_days"
	FieldEstablishmentName = "establishment_name"
	FieldEstablishmentType = "establishment_type"
	FieldMarketRole        = "market_role"
	FieldMarketStallCount  = "market_stall_count"
	FieldInstitutionName   = "institution_name"
	FieldInstitutionType   = "institution_type"
)

const fallbackPrefix = "G"

const representativeLabel = "Nombre y Apellido del representante"

var scheduleFields = []string{FieldStartTime, FieldEndTime, FieldCollectionDays}

type typeConfig struct {
	prefix string
	extra  []string
	labels map[string]string
}

// typeConfigs is the only place that knows which attributes belong to which census type.
// Code prefixes, validation rules and display flags are all derived from it.
var typeConfigs = map[int64]typeConfig{
	reference.TypeHousehold: {
		prefix: "V",
		extra:  append([]string{FieldInhabitantCount, FieldRouteCode, FieldPlate}, scheduleFields...),
		labels: map[string]string{
			"establecimiento": "Vivienda",
			"representante":   representativeLabel,
		},
	},
	reference.TypeBusiness: {
		prefix: "C",
		extra:  append([]string{FieldEstablishmentName, FieldEstablishmentType, FieldRouteCode, FieldPlate}, scheduleFields...),
		labels: map[string]string{
			"establecimiento": "Nombre del establecimiento comercial",
			"tipo":            "Tipo de establecimiento comercial",
			"representante":   representativeLabel,
		},
	},
	reference.TypeMarket: {
		prefix: "M",
		extra:  []string{FieldEstablishmentName, FieldMarketRole, FieldMarketStallCount},
		labels: map[string]string{
			"establecimiento": "Nombre del mercado",
			"tipo":            "Tipo",
			"puestos":         "N° de puestos que participan",
			"representante":   representativeLabel,
		},
	},
	reference.TypeOrganizedHousehold: {
		prefix: "O",
		labels: map[string]string{
			"representante": representativeLabel,
		},
	},
	reference.TypeEducationalInstitution: {
		prefix: "E",
		extra:  []string{FieldInstitutionName, FieldInstitutionType},
		labels: map[string]string{
			"institucion":   "Nombre de la institución",
			"tipo":          "Tipo de institución",
			"representante": representativeLabel,
		},
	},
	reference.TypePublicOrPrivateInstitution: {
		prefix: "I",
		extra:  []string{FieldInstitutionName, FieldInstitutionType},
		labels: map[string]string{
			"institucion":   "Nombre de la institución",
			"tipo":          "Tipo de institución",
			"representante": representativeLabel,
		},
	},
	reference.TypeOther: {
		prefix: "X",
		extra:  []string{FieldEstablishmentName, FieldEstablishmentType},
		labels: map[string]string{
			"establecimiento": "Nombre del local",
			"tipo":            "Tipo",
			"representante":   representativeLabel,
		},
	},
}

func PrefixFor(typeID int64) string {
	if cfg, ok := typeConfigs[typeID]; ok {
		return cfg.prefix
	}
	return fallbackPrefix
}

type DisplayConfig struct {
	ShowSchedule          bool
	ShowInhabitants       bool
	ShowRouteCode         bool
	ShowPlate             bool
	ShowEstablishmentName bool
	ShowEstablishmentType bool
	ShowInstitutionName   bool
	ShowInstitutionType   bool
	ShowStallCount        bool
	ShowMarketRole        bool
	Labels                map[string]string
}

// DisplayConfigFor never fails; unknown ids get every flag off and no labels.
func DisplayConfigFor(typeID int64) DisplayConfig {
	rules := RulesFor(typeID)
	cfg := DisplayConfig{
		ShowSchedule:          rules.Requires(FieldStartTime),
		ShowInhabitants:       rules.Requires(FieldInhabitantCount),
		ShowRouteCode:         rules.Requires(FieldRouteCode),
		ShowPlate:             rules.Requires(FieldPlate),
		ShowEstablishmentName: rules.Requires(FieldEstablishmentName),
		ShowEstablishmentType: rules.Requires(FieldEstablishmentType),
		ShowInstitutionName:   rules.Requires(FieldInstitutionName),
		ShowInstitutionType:   rules.Requires(FieldInstitutionType),
		ShowStallCount:        rules.Requires(FieldMarketStallCount),
		ShowMarketRole:        rules.Requires(FieldMarketRole),
		Labels:                map[string]string{},
	}
	for key, label := range typeConfigs[typeID].labels {
		cfg.Labels[key] = label
	}
	return cfg
}
