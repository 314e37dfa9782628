package model

import "time"

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	return f == ExportFormatCSV || f == ExportFormatXLSX
}

func (f ExportFormat) ContentType() string {
	if f == ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

type ExportRequest struct {
	Format ExportFormat `query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type GpaScoreRow struct {
	ID             int64   `csv:"ID"`
	Nickname       string  `csv:"Nickname"`
	Gpa            float64 `csv:"GPA"`
	GpaCriteria    float64 `csv:"GPA Criteria"`
	VerifyStatus   string  `csv:"Status"`
	RejectedReason string  `csv:"Rejected Reason"`
	ReportURL      string  `csv:"Report"`
	CreatedAt      string  `csv:"Created At"`
	UpdatedAt      string  `csv:"Updated At"`
}

func NewGpaScoreRow(s GpaScore) GpaScoreRow {
	return GpaScoreRow{
		ID:             s.ID,
		Nickname:       nickname(s.User),
		Gpa:            s.Gpa,
		GpaCriteria:    s.GpaCriteria,
		VerifyStatus:   s.VerifyStatus.Label(),
		RejectedReason: s.Reason(),
		ReportURL:      s.ReportURL,
		CreatedAt:      timestamp(s.CreatedAt),
		UpdatedAt:      timestamp(s.UpdatedAt),
	}
}

type LanguageTestScoreRow struct {
	ID                int64  `csv:"ID"`
	Nickname          string `csv:"Nickname"`
	LanguageTestType  string `csv:"Test"`
	LanguageTestScore string `csv:"Score"`
	VerifyStatus      string `csv:"Status"`
	RejectedReason    string `csv:"Rejected Reason"`
	ReportURL         string `csv:"Report"`
	CreatedAt         string `csv:"Created At"`
	UpdatedAt         string `csv:"Updated At"`
}

func NewLanguageTestScoreRow(s LanguageTestScore) LanguageTestScoreRow {
	return LanguageTestScoreRow{
		ID:                s.ID,
		Nickname:          nickname(s.User),
		LanguageTestType:  string(s.LanguageTestType),
		LanguageTestScore: s.LanguageTestScore,
		VerifyStatus:      s.VerifyStatus.Label(),
		RejectedReason:    s.Reason(),
		ReportURL:         s.ReportURL,
		CreatedAt:         timestamp(s.CreatedAt),
		UpdatedAt:         timestamp(s.UpdatedAt),
	}
}

func nickname(u *UserSummary) string {
	if u == nil {
		return ""
	}
	return u.Nickname
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
