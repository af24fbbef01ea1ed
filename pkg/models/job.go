package models

import (
	"fmt"
	"time"
)

// Market is the geographic market a job posting targets.
type Market string

const (
	MarketUSA   Market = "USA"
	MarketUK    Market = "UK"
	MarketOther Market = "OTHER"
)

// CompanySize buckets a company by headcount.
type CompanySize string

const (
	CompanySizeSmall      CompanySize = "SMALL"      // 1-50
	CompanySizeMedium     CompanySize = "MEDIUM"     // 51-250
	CompanySizeLarge      CompanySize = "LARGE"      // 251-1000
	CompanySizeEnterprise CompanySize = "ENTERPRISE" // 1000+
	CompanySizeUnknown    CompanySize = "UNKNOWN"
)

// JobType is the employment arrangement advertised by a posting.
type JobType string

const (
	JobTypeAny      JobType = ""
	JobTypeRemote   JobType = "remote"
	JobTypeHybrid   JobType = "hybrid"
	JobTypeOnSite   JobType = "on_site"
	JobTypeFullTime JobType = "full_time"
	JobTypePartTime JobType = "part_time"
	JobTypeContract JobType = "contract"
)

// ExportStatus tracks whether a job has been handed to the export collaborator.
type ExportStatus string

const (
	ExportStatusPending  ExportStatus = "pending"
	ExportStatusExported ExportStatus = "exported"
)

// DecisionMaker is a hiring-relevant contact resolved for a job's company.
type DecisionMaker struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	LinkedInURL string  `json:"linkedin_url,omitempty"`
	Email       string  `json:"email,omitempty"`
	Provenance  string  `json:"provenance"`
	Confidence  float64 `json:"confidence"`
}

// JobKey identifies a job within one run. Identity is per-portal: the same
// posting appearing under different links on two portals stays two records.
type JobKey struct {
	Link     string `json:"link"`
	PortalID string `json:"portal_id"`
}

func (k JobKey) String() string {
	return fmt.Sprintf("%s@%s", k.Link, k.PortalID)
}

// CanonicalJob is the normalized unit of value produced by a run.
type CanonicalJob struct {
	Title          string          `json:"title" validate:"required"`
	Company        string          `json:"company" validate:"required"`
	CompanyURL     string          `json:"company_url,omitempty"`
	CompanySize    CompanySize     `json:"company_size"`
	Market         Market          `json:"market"`
	PortalID       string          `json:"portal_id" validate:"required"`
	JobLink        string          `json:"job_link" validate:"required,url"`
	PostedDate     *time.Time      `json:"posted_date,omitempty"`
	Location       string          `json:"location,omitempty"`
	JobType        JobType         `json:"job_type,omitempty"`
	SalaryText     string          `json:"salary_text,omitempty"`
	Description    string          `json:"description,omitempty"`
	ScrapedAt      time.Time       `json:"scraped_at"`
	DecisionMakers []DecisionMaker `json:"decision_makers,omitempty"`
	ExportStatus   ExportStatus    `json:"export_status"`
}

// Key returns the dedup identity of the job within a run.
func (j *CanonicalJob) Key() JobKey {
	return JobKey{Link: j.JobLink, PortalID: j.PortalID}
}
