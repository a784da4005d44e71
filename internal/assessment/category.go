// internal/assessment/category.go
package assessment

// Category tags a question with the dimension it measures.
type Category string

// RIASEC interest dimensions.
const (
	RIASECRealistic     Category = "RIASEC_R"
	RIASECInvestigative Category = "RIASEC_I"
	RIASECArtistic      Category = "RIASEC_A"
	RIASECSocial        Category = "RIASEC_S"
	RIASECEnterprising  Category = "RIASEC_E"
	RIASECConventional  Category = "RIASEC_C"
)

// Multiple Intelligences dimensions.
const (
	MILinguistic    Category = "MI_Linguistic"
	MILogical       Category = "MI_Logical"
	MIVisualSpatial Category = "MI_VisualSpatial"
	MIMusical       Category = "MI_Musical"
	MIBodily        Category = "MI_Bodily"
	MIInterpersonal Category = "MI_Interpersonal"
	MIIntrapersonal Category = "MI_Intrapersonal"
	MINaturalistic  Category = "MI_Naturalistic"
)

// Emotional Intelligence dimensions.
const (
	EISelfAwareness  Category = "EI_SelfAwareness"
	EISelfRegulation Category = "EI_SelfRegulation"
	EIMotivation     Category = "EI_Motivation"
	EIEmpathy        Category = "EI_Empathy"
	EISocialSkills   Category = "EI_SocialSkills"
)

// Legacy categories used by the original eight-question set.
const (
	LegacyAnalytical     Category = "analytical"
	LegacySocial         Category = "social"
	LegacyCreative       Category = "creative"
	LegacyTechnical      Category = "technical"
	LegacyLeadership     Category = "leadership"
	LegacyDetailOriented Category = "detail-oriented"
	LegacyHelping        Category = "helping"
	LegacyHandsOn        Category = "hands-on"
)

// Bucket is one of the five coarse aggregates used to pick a domain.
type Bucket string

const (
	BucketTechnical  Bucket = "technical"
	BucketCreative   Bucket = "creative"
	BucketBusiness   Bucket = "business"
	BucketSocial     Bucket = "social"
	BucketAnalytical Bucket = "analytical"
)

// Buckets lists the coarse buckets in tie-break order. The first bucket
// holding the maximum score wins, so reordering this slice changes results.
var Buckets = []Bucket{
	BucketTechnical,
	BucketCreative,
	BucketBusiness,
	BucketSocial,
	BucketAnalytical,
}

// FineCategories lists the 19 fine-grained dimensions that get their own
// aggregate key.
var FineCategories = []Category{
	RIASECRealistic, RIASECInvestigative, RIASECArtistic,
	RIASECSocial, RIASECEnterprising, RIASECConventional,

	MILinguistic, MILogical, MIVisualSpatial, MIMusical,
	MIBodily, MIInterpersonal, MIIntrapersonal, MINaturalistic,

	EISelfAwareness, EISelfRegulation, EIMotivation, EIEmpathy, EISocialSkills,
}

// coarseFanOut maps a category onto the coarse buckets it feeds in addition
// to its own aggregate key. Categories absent from the table feed none.
var coarseFanOut = map[Category][]Bucket{
	RIASECRealistic: {BucketTechnical},
	LegacyHandsOn:   {BucketTechnical},

	RIASECInvestigative: {BucketTechnical, BucketAnalytical},
	LegacyAnalytical:    {BucketTechnical, BucketAnalytical},

	RIASECArtistic: {BucketCreative},
	LegacyCreative: {BucketCreative},

	RIASECSocial:    {BucketSocial},
	LegacyHelping:   {BucketSocial},
	LegacySocial:    {BucketSocial},
	MIInterpersonal: {BucketSocial},

	RIASECEnterprising:   {BucketBusiness},
	LegacyLeadership:     {BucketBusiness},
	LegacyDetailOriented: {BucketBusiness},
	RIASECConventional:   {BucketBusiness},
}

// CoarseBuckets returns the coarse buckets fed by c.
func CoarseBuckets(c Category) []Bucket {
	out := coarseFanOut[c]
	return append([]Bucket(nil), out...)
}

// AggregateKeys returns every key present in a non-empty aggregate map:
// the five coarse buckets followed by the fine-grained dimensions.
func AggregateKeys() []string {
	keys := make([]string, 0, len(Buckets)+len(FineCategories))
	for _, b := range Buckets {
		keys = append(keys, string(b))
	}
	for _, c := range FineCategories {
		keys = append(keys, string(c))
	}
	return keys
}
