package domain

// IssueType categorizes a civic issue report. The set is bounded but
// extensible; unknown categories fall back to DefaultSeverity.
type IssueType string

const (
	IssuePothole            IssueType = "pothole"
	IssueIllegalParking     IssueType = "illegal_parking"
	IssueGarbageTruck       IssueType = "garbage_truck"
	IssueBrokenTrafficLight IssueType = "broken_traffic_light"
	IssueBrokenBench        IssueType = "broken_bench"
	IssueLitter             IssueType = "litter"
	IssueGarbage            IssueType = "garbage"
	IssueLighting           IssueType = "lighting"
	IssueWater              IssueType = "water"
	IssuePublicSafety       IssueType = "public_safety"
	IssueUncategorized      IssueType = "uncategorized_issue"
)

// DefaultSeverity applies to categories absent from the severity table.
const DefaultSeverity = 0.5

var severityTable = map[IssueType]float64{
	IssuePothole:            0.8,
	IssueIllegalParking:     0.6,
	IssueGarbageTruck:       0.4,
	IssueBrokenTrafficLight: 1.0,
	IssueBrokenBench:        0.3,
	IssueLitter:             0.4,
	IssueGarbage:            0.4,
	IssueLighting:           0.7,
	IssueWater:              0.9,
	IssuePublicSafety:       1.0,
	IssueUncategorized:      0.5,
}

// SeverityFor maps an issue category to its normalized severity in [0,1].
// Severity is fixed at ticket creation and never changes afterwards.
func SeverityFor(issueType IssueType) float64 {
	if severity, ok := severityTable[issueType]; ok {
		return severity
	}
	return DefaultSeverity
}
