package repository_test

import (
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

var march = model.Window{From: day("2024-03-01"), To: day("2024-04-01")}

// sampleRecords spans February to April 2024. Application a-old was filed in
// February but hired in March; its job j-old closed in February.
func sampleRecords() model.Snapshot {
	return model.Snapshot{
		Jobs: []model.Job{
			{ID: "j-old", Title: "Analyst", PostedAt: day("2024-01-10"), ClosedAt: day("2024-02-20")},
			{ID: "j-open", Title: "Engineer", PostedAt: day("2024-02-15")},
			{ID: "j-future", Title: "Designer", PostedAt: day("2024-04-10")},
		},
		Applications: []model.Application{
			{ID: "a-old", JobID: "j-old", Source: "referral", AppliedAt: day("2024-02-05"), Stage: model.StageHired},
			{ID: "a-mar", JobID: "j-open", Source: "linkedin", AppliedAt: day("2024-03-04"), Stage: model.StageScreen},
			{ID: "a-apr", JobID: "j-future", Source: "linkedin", AppliedAt: day("2024-04-12"), Stage: model.StageApply},
		},
		StageEvents: []model.StageEvent{
			{AppID: "a-old", Stage: model.StageOffer, At: day("2024-02-25")},
			{AppID: "a-mar", Stage: model.StageScreen, At: day("2024-03-06")},
			{AppID: "a-apr", Stage: model.StageApply, At: day("2024-04-12")},
		},
		Offers: []model.Offer{
			{ID: "o-1", AppID: "a-old", OfferedAt: day("2024-02-25"), AcceptedAt: day("2024-02-27")},
		},
		Hires: []model.Hire{
			{ID: "h-1", AppID: "a-old", HiredAt: day("2024-03-02"), StartDate: day("2024-03-11")},
		},
		Terminations: []model.Termination{
			{ID: "t-1", HireID: "h-1", Type: model.TerminationResign, At: day("2024-04-20")},
		},
		Channels: []model.ChannelStat{{Channel: "linkedin", Impressions: 1000, Spend: 500}},
		Costs: []model.CostItem{
			{Kind: model.CostExternal, Amount: 900, Period: model.Window{From: day("2024-02-15"), To: day("2024-03-15")}},
			{Kind: model.CostInternal, Amount: 100, Period: model.Window{From: day("2024-01-01"), To: day("2024-02-01")}},
		},
		Surveys: []model.SurveyScore{
			{Kind: model.SurveyCandidate, Score: 4, At: day("2024-03-20")},
			{Kind: model.SurveyCandidate, Score: 2, At: day("2024-02-20")},
		},
	}
}
