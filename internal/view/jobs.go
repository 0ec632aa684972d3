package view

import (
	"context"
	"fmt"

	"github.com/emailportal/portal-client/internal/core/domain"
	"github.com/emailportal/portal-client/internal/core/validation"
)

// JobCard is a job as listed, with its display fields resolved.
type JobCard struct {
	domain.Job
	EmploymentLabel string `json:"employment_label"`
	// ApplyPath is empty once the user applied.
	ApplyPath string `json:"apply_path,omitempty"`
}

func cardOf(j domain.Job) JobCard {
	c := JobCard{Job: j, EmploymentLabel: j.DisplayEmploymentType()}
	if !j.IsApplied {
		c.ApplyPath = fmt.Sprintf("/joblist/%d/apply", j.ID)
	}
	return c
}

// JobListView is the job board.
type JobListView struct {
	Jobs      []JobCard `json:"jobs"`
	Count     int       `json:"count"`
	Locations []string  `json:"locations"`
	Location  string    `json:"location,omitempty"`
	Selected  *JobCard  `json:"selected,omitempty"`
}

// FilterByLocation keeps the jobs whose location equals location exactly.
// An empty location keeps every job.
func FilterByLocation(jobs []domain.Job, location string) []domain.Job {
	if location == "" {
		return jobs
	}
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Location == location {
			out = append(out, j)
		}
	}
	return out
}

// UniqueLocations returns the distinct locations in first-seen order.
func UniqueLocations(jobs []domain.Job) []string {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := seen[j.Location]; ok {
			continue
		}
		seen[j.Location] = struct{}{}
		out = append(out, j.Location)
	}
	return out
}

// BuildJobList computes the job board. The selected job is the one with
// selectedID, or the first job when selectedID is zero or unknown.
func BuildJobList(jobs []domain.Job, location string, selectedID int64) JobListView {
	filtered := FilterByLocation(jobs, location)
	view := JobListView{
		Jobs:      make([]JobCard, 0, len(filtered)),
		Count:     len(filtered),
		Locations: UniqueLocations(jobs),
		Location:  location,
	}
	for _, j := range filtered {
		view.Jobs = append(view.Jobs, cardOf(j))
	}

	for _, j := range jobs {
		if j.ID == selectedID {
			c := cardOf(j)
			view.Selected = &c
			return view
		}
	}
	if len(jobs) > 0 {
		c := cardOf(jobs[0])
		view.Selected = &c
	}
	return view
}

// JobList renders the job board.
func (v *Views) JobList(ctx context.Context, location string, selectedID int64) (Result, error) {
	jobs, err := v.portal.ListJobs(ctx)
	if err != nil {
		return Result{}, err
	}
	return render(BuildJobList(jobs, location, selectedID)), nil
}

// Apply starts drafting the application for jobID and opens the editor
// right away; the editor shows the draft once it exists.
func (v *Views) Apply(jobID int64) Result {
	v.forms.Drop(jobID)
	v.portal.ApplyInBackground(jobID)
	return Result{
		Notice:   &Notice{Level: LevelInfo, Message: "Generating your application"},
		Redirect: editorPath(jobID),
	}
}

func editorPath(jobID int64) string { return fmt.Sprintf("/jobapplication/%d", jobID) }

// CreateJob adds a job listing by hand.
func (v *Views) CreateJob(ctx context.Context, f validation.JobForm) (Result, error) {
	if err := v.validate.Check(f); err != nil {
		return Result{}, err
	}
	job, err := v.portal.CreateJob(ctx, f.Input())
	if err != nil {
		return Result{}, err
	}
	res := done("Job Position Created", "/joblist")
	if job != nil && job.ID != 0 {
		res.View = cardOf(*job)
	}
	return res, nil
}

// AppliedJobsView lists the jobs the user applied to.
type AppliedJobsView struct {
	Jobs  []JobCard `json:"jobs"`
	Count int       `json:"count"`
}

func (v *Views) AppliedJobs(ctx context.Context) (Result, error) {
	jobs, err := v.portal.ListAppliedJobs(ctx)
	if err != nil {
		return Result{}, err
	}
	view := AppliedJobsView{Jobs: make([]JobCard, 0, len(jobs)), Count: len(jobs)}
	for _, j := range jobs {
		j.IsApplied = true
		view.Jobs = append(view.Jobs, cardOf(j))
	}
	return render(view), nil
}
