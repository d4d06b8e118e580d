package sampledata

// Defaults.
const (
	defaultSeed             = 42
	defaultJobs             = 24
	defaultApplicantsPerJob = 30
	pcgStream               = 0x5eed
)

// Timing ranges in days.
const (
	postingSpanShare  = 3 // jobs are posted in the first 2/3 of the window
	applyDelayDays    = 21
	submitDelayDays   = 2
	stageStepDays     = 6
	offerDecisionDays = 3
	startDelayMinDays = 7
	startDelayDays    = 14
	closeAfterMinDays = 60
	closeAfterDays    = 30
	tenureDays        = 400
)

// Probabilities.
const (
	submitRate      = 0.9
	rejectRate      = 0.5
	closeRate       = 0.2
	terminationRate = 0.15
	resignShare     = 0.7
)

// Spend and cost ranges.
const (
	impressionsMin = 2_000
	impressionsMax = 8_000
	spendMin       = 500.0
	spendRange     = 4_500.0
	surveysPerKind = 3
	surveyMaxScore = 5
)

// passRates is the chance of moving from funnel[i] to funnel[i+1].
var passRates = []float64{0.6, 0.5, 0.7, 0.8, 0.6, 0.7, 0.8}

// monthlyCost is the base monthly amount per cost kind; each month varies
// it by up to half.
var monthlyCost = map[string]float64{
	"internal":        3_000,
	"external":        2_000,
	"onboarding":      800,
	"training":        1_200,
	"supervision":     600,
	"otj":             400,
	"laborProportion": 900,
}

var titles = []string{
	"Backend Engineer", "Frontend Engineer", "Data Analyst", "Product Manager",
	"Recruiter", "Designer", "Support Specialist", "Sales Executive",
}
