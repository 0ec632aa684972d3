package domain

// DefaultEmploymentType is shown when the backend leaves employmentType empty.
const DefaultEmploymentType = "Full-Time"

// Job is a server-owned job listing. The client only ever holds a read-only
// cached copy.
type Job struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	CompanyName      string   `json:"company_name"`
	Location         string   `json:"location"`
	Salary           string   `json:"salary"`
	JobDescription   string   `json:"job_description"`
	EmploymentType   string   `json:"employmentType"`
	IsApplied        bool     `json:"is_applied"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// DisplayEmploymentType returns the employment type or the default label.
func (j Job) DisplayEmploymentType() string {
	if j.EmploymentType == "" {
		return DefaultEmploymentType
	}
	return j.EmploymentType
}

// JobInput is the payload of the create-job operation.
type JobInput struct {
	Title            string   `json:"title"`
	CompanyName      string   `json:"company_name"`
	Location         string   `json:"location,omitempty"`
	Salary           string   `json:"salary,omitempty"`
	JobDescription   string   `json:"job_description"`
	EmploymentType   string   `json:"employmentType,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// AppliedJobs is the envelope returned by the applied-jobs endpoint.
type AppliedJobs struct {
	AppliedJobs []Job `json:"applied_jobs"`
}
