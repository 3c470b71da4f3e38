package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jobportal/jobportal-go/internal/model"
)

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register", a.out)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *name, err = a.promptIfEmpty(*name, "Name"); err != nil {
		return err
	}
	if *email, err = a.promptIfEmpty(*email, "Email"); err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	res, err := a.client.Register(ctx, model.RegisterRequest{Name: *name, Email: *email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s. Logged in as %s <%s>\n", res.Message, res.User.Name, res.User.Email)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login", a.out)
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email, err = a.promptIfEmpty(*email, "Email"); err != nil {
		return err
	}
	password, err := a.password()
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s. Logged in as %s <%s>\n", res.Message, res.User.Name, res.User.Email)
	return nil
}

func cmdLoginGoogle(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login-google", a.out)
	idToken := fs.String("id-token", "", "Google ID token")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address on the Google account")
	photo := fs.String("photo", "", "profile photo URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *idToken == "" {
		return errors.New("-id-token is required")
	}
	if *name == "" || *email == "" {
		return errors.New("-name and -email are required")
	}

	res, err := a.client.LoginFederated(ctx, model.FederatedLogin{
		Name:    *name,
		Email:   *email,
		Photo:   *photo,
		IDToken: *idToken,
	})
	if err != nil {
		return err
	}

	if res.Created {
		fmt.Fprintln(a.out, "Account created.")
	}
	fmt.Fprintf(a.out, "%s. Logged in as %s <%s>\n", res.Message, res.User.Name, res.User.Email)
	return nil
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func cmdProfile(ctx context.Context, a *app, _ []string) error {
	user, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", user.ID)
	fmt.Fprintf(tw, "Name\t%s\n", user.Name)
	fmt.Fprintf(tw, "Email\t%s\n", user.Email)
	if user.Photo != "" {
		fmt.Fprintf(tw, "Photo\t%s\n", user.Photo)
	}
	return tw.Flush()
}

func cmdJobs(ctx context.Context, a *app, _ []string) error {
	jobs, err := a.client.Jobs(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(a.out, "No jobs posted.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLAST DATE\tDRIVE\tPOSTED BY")
	for _, j := range jobs {
		owner := "-"
		if j.User != nil {
			owner = j.User.Email
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Title, j.Company, j.LastDate.Format("2006-01-02"), j.DriveType, owner)
	}
	return tw.Flush()
}

func cmdPostJob(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("post-job", a.out)
	title := fs.String("title", "", "job title")
	company := fs.String("company", "", "company name")
	description := fs.String("description", "", "job description")
	lastDate := fs.String("last-date", "", "last date to apply (YYYY-MM-DD)")
	driveType := fs.String("drive-type", string(model.DriveWalkIn), `"Walk-in Drive" or "Direct Face-to-Face"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := model.JobRequest{
		Title:       title,
		Company:     company,
		Description: description,
		DriveType:   (*model.DriveType)(driveType),
	}
	if *lastDate != "" {
		d, err := model.ParseDate(*lastDate)
		if err != nil {
			return err
		}
		req.LastDate = &d
	}

	job, err := a.client.CreateJob(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Job created: %s\n", job.ID)
	return nil
}

func cmdDeleteJob(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: portalctl delete-job ID")
	}

	if err := a.client.DeleteJob(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Job deleted.")
	return nil
}

func cmdApply(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("apply", a.out)
	jobID := fs.String("job", "", "job ID")
	name := fs.String("name", "", "applicant name")
	email := fs.String("email", "", "contact email")
	location := fs.String("location", "", "current location")
	college := fs.String("college", "", "college name")
	tenth := fs.Float64("tenth", 0, "10th standard percentage")
	degree := fs.Float64("degree", 0, "degree percentage")
	language := fs.String("language", "", "Java, Python, MERN or Software Testing")
	communication := fs.Float64("communication", 0, "communication self-rating")
	resumePath := fs.String("resume", "", "path to a PDF, DOC or DOCX resume")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jobID == "" {
		return errors.New("-job is required")
	}

	var resume *model.Resume
	if *resumePath != "" {
		r, err := loadResume(*resumePath)
		if err != nil {
			return err
		}
		resume = r
	}

	submitted, err := a.client.Apply(ctx, model.ApplicationRequest{
		JobID:            *jobID,
		Name:             *name,
		Email:            *email,
		Location:         *location,
		CollegeName:      *college,
		TenthPercentage:  *tenth,
		DegreePercentage: *degree,
		SelectedLanguage: *language,
		Communication:    *communication,
	}, resume)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Application submitted: %s (%s)\n", submitted.ID, submitted.Status)
	return nil
}

func cmdMyApplications(ctx context.Context, a *app, _ []string) error {
	apps, err := a.client.MyApplications(ctx)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(a.out, "No applications yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tJOB\tCOMPANY\tSTATUS\tAPPLIED")
	for _, ap := range apps {
		title, company := "(deleted)", "-"
		if ap.Job != nil {
			title, company = ap.Job.Title, ap.Job.Company
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ap.ID, title, company, ap.Status, ap.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func loadResume(path string) (*model.Resume, error) {
	contentType, ok := resumeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("resume %s: only PDF, DOC, or DOCX files are allowed", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}

	return &model.Resume{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
