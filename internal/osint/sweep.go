package osint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldworks/skiptrace/internal/brain"
	"github.com/fieldworks/skiptrace/internal/errors"
	"golang.org/x/sync/errgroup"
)

// Target holds the identifiers to sweep for. Empty fields skip the
// corresponding search.
type Target struct {
	Name     string
	Username string
	Email    string
	Phone    string
}

// Sweep aggregates the results of one full sweep. A failed tool leaves its
// slot zero and records the failure in Errors so partial intelligence is
// never discarded.
type Sweep struct {
	Target   Target
	Username *UsernameResult
	Deep     *UsernameResult
	Email    *EmailResult
	Phone    *PhoneResult
	Errors   []string
}

// FullSweep fans out to every applicable backend tool concurrently. Tool
// failures are collected, not propagated, because one slow or broken tool
// must not cost the results of the others.
func (c *Client) FullSweep(ctx context.Context, target Target) Sweep {
	sweep := Sweep{Target: target}
	var (
		group, groupCtx = errgroup.WithContext(ctx)
		failures        = make(chan string, 4)
	)

	if target.Username != "" {
		group.Go(func() error {
			result, err := c.SearchUsername(groupCtx, target.Username)
			if err != nil {
				failures <- fmt.Sprintf("sherlock: %v", err)
				return nil
			}
			sweep.Username = &result
			return nil
		})
		group.Go(func() error {
			result, err := c.DeepSearchUsername(groupCtx, target.Username)
			if err != nil {
				failures <- fmt.Sprintf("maigret: %v", err)
				return nil
			}
			sweep.Deep = &result
			return nil
		})
	}
	if target.Email != "" {
		group.Go(func() error {
			result, err := c.SearchEmail(groupCtx, target.Email)
			if err != nil {
				failures <- fmt.Sprintf("holehe: %v", err)
				return nil
			}
			sweep.Email = &result
			return nil
		})
	}
	if target.Phone != "" {
		group.Go(func() error {
			result, err := c.SearchPhone(groupCtx, target.Phone, "US")
			if err != nil {
				failures <- fmt.Sprintf("phone: %v", err)
				return nil
			}
			sweep.Phone = &result
			return nil
		})
	}

	// The goroutines only ever return nil so Wait cannot fail here.
	_ = group.Wait()
	close(failures)
	for failure := range failures {
		sweep.Errors = append(sweep.Errors, failure)
		c.logger.LogAttrs(ctx, slog.LevelWarn, "sweep tool failed",
			slog.String("target", target.Name), errors.SlogError(errors.New(failure)))
	}

	return sweep
}

// Findings flattens a sweep into web evidence records. Profile hits are
// optionally enriched with the page title when an enricher is provided.
func (c *Client) Findings(ctx context.Context, sweep Sweep) []brain.WebFinding {
	var findings []brain.WebFinding

	appendProfiles := func(tool string, result *UsernameResult) {
		if result == nil {
			return
		}
		for _, site := range result.Found {
			finding := brain.WebFinding{
				Source:  tool,
				Summary: fmt.Sprintf("Profile for %q on %s", result.Username, site.Site),
				URL:     site.URL,
			}
			if title := c.pageTitle(ctx, site.URL); title != "" {
				finding.Detail = title
			}
			findings = append(findings, finding)
		}
	}
	appendProfiles("sherlock", sweep.Username)
	appendProfiles("maigret", sweep.Deep)

	if sweep.Email != nil {
		for _, service := range sweep.Email.RegisteredOn {
			findings = append(findings, brain.WebFinding{
				Source:  "holehe",
				Summary: fmt.Sprintf("Email %s registered on %s", sweep.Email.Email, service.Service),
			})
		}
	}

	if sweep.Phone != nil {
		phone := sweep.Phone
		if phone.Carrier != "" || phone.LineType != "" {
			findings = append(findings, brain.WebFinding{
				Source:  "phone",
				Summary: fmt.Sprintf("Phone %s: carrier %s, line type %s", phone.Phone, phone.Carrier, phone.LineType),
			})
		}
		for _, site := range phone.SocialMedia {
			findings = append(findings, brain.WebFinding{
				Source:  "phone",
				Summary: fmt.Sprintf("Phone %s linked to %s", phone.Phone, site.Site),
				URL:     site.URL,
			})
		}
	}

	return findings
}
